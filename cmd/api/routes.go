package main

import (
	"log"
	"net/http"

	httphandlers "copilot/internal/interfaces/http"
	"copilot/internal/shared/config"
	"copilot/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)
	mux.HandleFunc("/api/health", httphandlers.HandleHealth)

	// Link flow
	mux.HandleFunc("/api/link/token", deps.LinkHandler.HandleCreateToken)
	mux.HandleFunc("/api/link/exchange", deps.LinkHandler.HandleExchange)

	// Transactions
	mux.HandleFunc("/api/transactions", deps.TransactionHandler.HandleList)

	// Sync triggers
	mux.HandleFunc("/api/data/sync/accounts", deps.DataHandler.HandleSyncAccounts)
	mux.HandleFunc("/api/data/sync/transactions", deps.DataHandler.HandleSyncTransactions)
	mux.HandleFunc("/api/data/sync/investments", deps.DataHandler.HandleSyncInvestments)

	// Derived reads
	mux.HandleFunc("/api/data/summary", deps.DataHandler.HandleSummary)
	mux.HandleFunc("/api/data/budgets", deps.DataHandler.HandleBudgets)
	mux.HandleFunc("/api/data/investments", deps.DataHandler.HandleInvestments)

	// Chat
	mux.HandleFunc("/api/chat", deps.ChatHandler.HandleChat)

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(middleware.Telemetry(middleware.Tracing(mux))))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(handler)
		log.Println("TLS security middleware enabled (HSTS)")
	}

	return handler
}
