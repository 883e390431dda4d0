package http

import (
	"context"
	"time"

	"copilot/internal/domain/account"
	"copilot/internal/domain/budget"
	"copilot/internal/domain/investment"
	"copilot/internal/domain/item"
	"copilot/internal/domain/transaction"
	"copilot/internal/domain/user"
	"copilot/internal/infrastructure/plaidapi"
)

// Hand-rolled fakes shared by the handler tests.

type MockClient struct {
	LinkTokenCreateFunc        func(ctx context.Context, clientUserID string) (*plaidapi.LinkTokenCreateResponse, error)
	ExchangePublicTokenFunc    func(ctx context.Context, publicToken string) (*plaidapi.ExchangeResponse, error)
	AccountsGetFunc            func(ctx context.Context, accessToken string) (*plaidapi.AccountsGetResponse, error)
	TransactionsSyncFunc       func(ctx context.Context, accessToken, cursor string) (*plaidapi.TransactionsSyncResponse, error)
	InvestmentsHoldingsGetFunc func(ctx context.Context, accessToken string) (*plaidapi.InvestmentsHoldingsGetResponse, error)
}

func (m *MockClient) LinkTokenCreate(ctx context.Context, clientUserID string) (*plaidapi.LinkTokenCreateResponse, error) {
	if m.LinkTokenCreateFunc != nil {
		return m.LinkTokenCreateFunc(ctx, clientUserID)
	}
	return &plaidapi.LinkTokenCreateResponse{}, nil
}
func (m *MockClient) ExchangePublicToken(ctx context.Context, publicToken string) (*plaidapi.ExchangeResponse, error) {
	if m.ExchangePublicTokenFunc != nil {
		return m.ExchangePublicTokenFunc(ctx, publicToken)
	}
	return &plaidapi.ExchangeResponse{}, nil
}
func (m *MockClient) AccountsGet(ctx context.Context, accessToken string) (*plaidapi.AccountsGetResponse, error) {
	if m.AccountsGetFunc != nil {
		return m.AccountsGetFunc(ctx, accessToken)
	}
	return &plaidapi.AccountsGetResponse{}, nil
}
func (m *MockClient) TransactionsSync(ctx context.Context, accessToken, cursor string) (*plaidapi.TransactionsSyncResponse, error) {
	if m.TransactionsSyncFunc != nil {
		return m.TransactionsSyncFunc(ctx, accessToken, cursor)
	}
	return &plaidapi.TransactionsSyncResponse{}, nil
}
func (m *MockClient) InvestmentsHoldingsGet(ctx context.Context, accessToken string) (*plaidapi.InvestmentsHoldingsGetResponse, error) {
	if m.InvestmentsHoldingsGetFunc != nil {
		return m.InvestmentsHoldingsGetFunc(ctx, accessToken)
	}
	return &plaidapi.InvestmentsHoldingsGetResponse{}, nil
}

type MockUserRepo struct {
	EnsureFunc func(ctx context.Context, id string) (*user.User, error)
}

func (m *MockUserRepo) Ensure(ctx context.Context, id string) (*user.User, error) {
	if m.EnsureFunc != nil {
		return m.EnsureFunc(ctx, id)
	}
	return &user.User{ID: id}, nil
}

type MockItemRepo struct {
	CreateFunc       func(ctx context.Context, userID, accessToken, institutionName string) (*item.Item, error)
	ListFunc         func(ctx context.Context) ([]*item.Item, error)
	ListByUserIDFunc func(ctx context.Context, userID string) ([]*item.Item, error)
	GetCursorFunc    func(ctx context.Context, itemID int64) (*item.Cursor, error)
	SaveCursorFunc   func(ctx context.Context, itemID int64, value string) error
}

func (m *MockItemRepo) Create(ctx context.Context, userID, accessToken, institutionName string) (*item.Item, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, accessToken, institutionName)
	}
	return &item.Item{}, nil
}
func (m *MockItemRepo) List(ctx context.Context) ([]*item.Item, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}
func (m *MockItemRepo) ListByUserID(ctx context.Context, userID string) ([]*item.Item, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}
func (m *MockItemRepo) GetCursor(ctx context.Context, itemID int64) (*item.Cursor, error) {
	if m.GetCursorFunc != nil {
		return m.GetCursorFunc(ctx, itemID)
	}
	return nil, nil
}
func (m *MockItemRepo) SaveCursor(ctx context.Context, itemID int64, value string) error {
	if m.SaveCursorFunc != nil {
		return m.SaveCursorFunc(ctx, itemID, value)
	}
	return nil
}

type MockAccountRepo struct {
	UpsertFunc       func(ctx context.Context, params account.UpsertParams) error
	ListByUserIDFunc func(ctx context.Context, userID string) ([]*account.Account, error)
}

func (m *MockAccountRepo) Upsert(ctx context.Context, params account.UpsertParams) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, params)
	}
	return nil
}
func (m *MockAccountRepo) ListByUserID(ctx context.Context, userID string) ([]*account.Account, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

type MockTransactionRepo struct {
	InsertIgnoreFunc            func(ctx context.Context, params transaction.UpsertParams) (bool, error)
	UpdateByTransactionIDFunc   func(ctx context.Context, params transaction.UpsertParams) (bool, error)
	DeleteByTransactionIDsFunc  func(ctx context.Context, transactionIDs []string) (int64, error)
	ListRecentByUserIDFunc      func(ctx context.Context, userID string, limit int) ([]*transaction.Transaction, error)
	ListSinceByUserIDFunc       func(ctx context.Context, userID string, since time.Time) ([]*transaction.Transaction, error)
	SpendByCategoryForMonthFunc func(ctx context.Context, userID, month string) (map[string]float64, error)
	ListPageFunc                func(ctx context.Context, q transaction.ListQuery) ([]*transaction.WithInstitution, int64, error)
	SearchByKeywordsFunc        func(ctx context.Context, userID string, tokens []string, limit int) ([]*transaction.Transaction, error)
}

func (m *MockTransactionRepo) InsertIgnore(ctx context.Context, params transaction.UpsertParams) (bool, error) {
	if m.InsertIgnoreFunc != nil {
		return m.InsertIgnoreFunc(ctx, params)
	}
	return true, nil
}
func (m *MockTransactionRepo) UpdateByTransactionID(ctx context.Context, params transaction.UpsertParams) (bool, error) {
	if m.UpdateByTransactionIDFunc != nil {
		return m.UpdateByTransactionIDFunc(ctx, params)
	}
	return true, nil
}
func (m *MockTransactionRepo) DeleteByTransactionIDs(ctx context.Context, transactionIDs []string) (int64, error) {
	if m.DeleteByTransactionIDsFunc != nil {
		return m.DeleteByTransactionIDsFunc(ctx, transactionIDs)
	}
	return 0, nil
}
func (m *MockTransactionRepo) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]*transaction.Transaction, error) {
	if m.ListRecentByUserIDFunc != nil {
		return m.ListRecentByUserIDFunc(ctx, userID, limit)
	}
	return nil, nil
}
func (m *MockTransactionRepo) ListSinceByUserID(ctx context.Context, userID string, since time.Time) ([]*transaction.Transaction, error) {
	if m.ListSinceByUserIDFunc != nil {
		return m.ListSinceByUserIDFunc(ctx, userID, since)
	}
	return nil, nil
}
func (m *MockTransactionRepo) SpendByCategoryForMonth(ctx context.Context, userID, month string) (map[string]float64, error) {
	if m.SpendByCategoryForMonthFunc != nil {
		return m.SpendByCategoryForMonthFunc(ctx, userID, month)
	}
	return map[string]float64{}, nil
}
func (m *MockTransactionRepo) ListPage(ctx context.Context, q transaction.ListQuery) ([]*transaction.WithInstitution, int64, error) {
	if m.ListPageFunc != nil {
		return m.ListPageFunc(ctx, q)
	}
	return nil, 0, nil
}
func (m *MockTransactionRepo) SearchByKeywords(ctx context.Context, userID string, tokens []string, limit int) ([]*transaction.Transaction, error) {
	if m.SearchByKeywordsFunc != nil {
		return m.SearchByKeywordsFunc(ctx, userID, tokens, limit)
	}
	return nil, nil
}

type MockBudgetRepo struct {
	CreateFunc             func(ctx context.Context, userID, month, category string, amount float64) (*budget.Budget, error)
	ListByUserAndMonthFunc func(ctx context.Context, userID, month string) ([]*budget.Budget, error)
}

func (m *MockBudgetRepo) Create(ctx context.Context, userID, month, category string, amount float64) (*budget.Budget, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, month, category, amount)
	}
	return &budget.Budget{}, nil
}
func (m *MockBudgetRepo) ListByUserAndMonth(ctx context.Context, userID, month string) ([]*budget.Budget, error) {
	if m.ListByUserAndMonthFunc != nil {
		return m.ListByUserAndMonthFunc(ctx, userID, month)
	}
	return nil, nil
}

type MockInvestmentRepo struct {
	ReplaceItemHoldingsFunc func(ctx context.Context, itemID int64, securities []*investment.Security, holdings []*investment.Holding) error
	ListByUserIDFunc        func(ctx context.Context, userID string) ([]*investment.HoldingWithSecurity, error)
}

func (m *MockInvestmentRepo) ReplaceItemHoldings(ctx context.Context, itemID int64, securities []*investment.Security, holdings []*investment.Holding) error {
	if m.ReplaceItemHoldingsFunc != nil {
		return m.ReplaceItemHoldingsFunc(ctx, itemID, securities, holdings)
	}
	return nil
}
func (m *MockInvestmentRepo) ListByUserID(ctx context.Context, userID string) ([]*investment.HoldingWithSecurity, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}
