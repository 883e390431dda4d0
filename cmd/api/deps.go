package main

import (
	"context"
	"log"

	"copilot/internal/domain/chat"
	"copilot/internal/domain/insights"
	"copilot/internal/domain/sync"
	"copilot/internal/infrastructure/crypto"
	"copilot/internal/infrastructure/llm"
	"copilot/internal/infrastructure/plaidapi"
	"copilot/internal/infrastructure/postgres"
	httphandlers "copilot/internal/interfaces/http"
	"copilot/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	LinkHandler        *httphandlers.LinkHandler
	TransactionHandler *httphandlers.TransactionHandler
	DataHandler        *httphandlers.DataHandler
	ChatHandler        *httphandlers.ChatHandler

	// Sync service (for scheduler jobs)
	SyncService *sync.Service
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		db.Close()
		return nil, err
	}

	userRepo := postgres.NewUserRepository(db)
	itemRepo := postgres.NewItemRepository(db, encryptor)
	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	budgetRepo := postgres.NewBudgetRepository(db)
	investmentRepo := postgres.NewInvestmentRepository(db)

	plaidClient, err := plaidapi.NewClient(cfg.Plaid.ClientID, cfg.Plaid.Secret, cfg.Plaid.Environment)
	if err != nil {
		db.Close()
		return nil, err
	}

	llmClient := llm.NewClient(llm.Config{
		Endpoint:      cfg.LLM.Endpoint,
		Deployment:    cfg.LLM.Deployment,
		DeploymentKey: cfg.LLM.DeploymentKey,
		APIVersion:    cfg.LLM.APIVersion,
		APIKey:        cfg.LLM.APIKey,
		BaseURL:       cfg.LLM.BaseURL,
		Model:         cfg.LLM.Model,
	})
	if !llmClient.Configured() {
		log.Println("No LLM credentials configured, chat will answer from context only")
	}

	syncService := sync.NewService(plaidClient, itemRepo, accountRepo, transactionRepo, investmentRepo)
	insightsService := insights.NewService(transactionRepo, budgetRepo, accountRepo, nil)
	chatService := chat.NewService(insightsService, transactionRepo, llmClient)

	return &Dependencies{
		DB:                 db,
		LinkHandler:        httphandlers.NewLinkHandler(plaidClient, userRepo, itemRepo),
		TransactionHandler: httphandlers.NewTransactionHandler(transactionRepo),
		DataHandler:        httphandlers.NewDataHandler(syncService, insightsService, budgetRepo, investmentRepo),
		ChatHandler:        httphandlers.NewChatHandler(chatService),
		SyncService:        syncService,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
