package scheduler

import (
	"context"
	"fmt"
	"log"

	"copilot/internal/domain/sync"
)

// AccountSyncJob refreshes account balances for every linked item.
type AccountSyncJob struct {
	syncService *sync.Service
}

func NewAccountSyncJob(syncService *sync.Service) *AccountSyncJob {
	return &AccountSyncJob{syncService: syncService}
}

func (j *AccountSyncJob) Execute(ctx context.Context) error {
	result, err := j.syncService.SyncAccounts(ctx)
	if err != nil {
		return fmt.Errorf("account sync failed: %w", err)
	}

	if failed := countFailed(result.Items); failed > 0 {
		log.Printf("Account sync completed with errors: Upserted=%d, Failed=%d", result.Upserted, failed)
		return fmt.Errorf("account sync completed with %d failed items", failed)
	}

	log.Printf("Account sync completed: Upserted=%d", result.Upserted)
	return nil
}

func (j *AccountSyncJob) Description() string {
	return "Account balance sync"
}

// TransactionSyncJob pulls the incremental transaction deltas for every
// linked item.
type TransactionSyncJob struct {
	syncService *sync.Service
}

func NewTransactionSyncJob(syncService *sync.Service) *TransactionSyncJob {
	return &TransactionSyncJob{syncService: syncService}
}

func (j *TransactionSyncJob) Execute(ctx context.Context) error {
	result, err := j.syncService.SyncTransactions(ctx)
	if err != nil {
		return fmt.Errorf("transaction sync failed: %w", err)
	}

	if failed := countFailed(result.Items); failed > 0 {
		log.Printf("Transaction sync completed with errors: Added=%d, Modified=%d, Removed=%d, Failed=%d",
			result.Added, result.Modified, result.Removed, failed)
		return fmt.Errorf("transaction sync completed with %d failed items", failed)
	}

	log.Printf("Transaction sync completed: Added=%d, Modified=%d, Removed=%d",
		result.Added, result.Modified, result.Removed)
	return nil
}

func (j *TransactionSyncJob) Description() string {
	return "Transaction sync"
}

// InvestmentSyncJob replaces the holding snapshots for every linked item.
type InvestmentSyncJob struct {
	syncService *sync.Service
}

func NewInvestmentSyncJob(syncService *sync.Service) *InvestmentSyncJob {
	return &InvestmentSyncJob{syncService: syncService}
}

func (j *InvestmentSyncJob) Execute(ctx context.Context) error {
	result, err := j.syncService.SyncInvestments(ctx)
	if err != nil {
		return fmt.Errorf("investment sync failed: %w", err)
	}

	if failed := countFailed(result.Items); failed > 0 {
		log.Printf("Investment sync completed with errors: Holdings=%d, Failed=%d", result.Holdings, failed)
		return fmt.Errorf("investment sync completed with %d failed items", failed)
	}

	log.Printf("Investment sync completed: Holdings=%d", result.Holdings)
	return nil
}

func (j *InvestmentSyncJob) Description() string {
	return "Investment holdings sync"
}

// FullSyncJob runs account, transaction, and investment sync in order.
// Accounts go first so transaction rows always land on refreshed accounts.
type FullSyncJob struct {
	syncService *sync.Service
}

func NewFullSyncJob(syncService *sync.Service) *FullSyncJob {
	return &FullSyncJob{syncService: syncService}
}

func (j *FullSyncJob) Execute(ctx context.Context) error {
	accountJob := NewAccountSyncJob(j.syncService)
	if err := accountJob.Execute(ctx); err != nil {
		return fmt.Errorf("account sync failed, skipping transaction sync: %w", err)
	}

	txJob := NewTransactionSyncJob(j.syncService)
	if err := txJob.Execute(ctx); err != nil {
		return err
	}

	// Investment failures are common (not every institution supports
	// holdings), so they do not fail the whole run.
	investmentJob := NewInvestmentSyncJob(j.syncService)
	if err := investmentJob.Execute(ctx); err != nil {
		log.Printf("Investment sync skipped: %v", err)
	}

	return nil
}

func (j *FullSyncJob) Description() string {
	return "Full sync (accounts + transactions + investments)"
}

func countFailed(items []sync.ItemResult) int {
	failed := 0
	for _, it := range items {
		if it.Status == sync.StatusError {
			failed++
		}
	}
	return failed
}
