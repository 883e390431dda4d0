package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"copilot/internal/domain/account"
	"copilot/internal/domain/budget"
	"copilot/internal/domain/transaction"
)

type MockTransactionRepo struct {
	ListRecentByUserIDFunc      func(ctx context.Context, userID string, limit int) ([]*transaction.Transaction, error)
	ListSinceByUserIDFunc       func(ctx context.Context, userID string, since time.Time) ([]*transaction.Transaction, error)
	SpendByCategoryForMonthFunc func(ctx context.Context, userID, month string) (map[string]float64, error)
}

func (m *MockTransactionRepo) InsertIgnore(ctx context.Context, params transaction.UpsertParams) (bool, error) {
	return false, nil
}
func (m *MockTransactionRepo) UpdateByTransactionID(ctx context.Context, params transaction.UpsertParams) (bool, error) {
	return false, nil
}
func (m *MockTransactionRepo) DeleteByTransactionIDs(ctx context.Context, transactionIDs []string) (int64, error) {
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
	return nil, 0, nil
}
func (m *MockTransactionRepo) SearchByKeywords(ctx context.Context, userID string, tokens []string, limit int) ([]*transaction.Transaction, error) {
	return nil, nil
}

type MockBudgetRepo struct {
	ListByUserAndMonthFunc func(ctx context.Context, userID, month string) ([]*budget.Budget, error)
}

func (m *MockBudgetRepo) Create(ctx context.Context, userID, month, category string, amount float64) (*budget.Budget, error) {
	return nil, nil
}
func (m *MockBudgetRepo) ListByUserAndMonth(ctx context.Context, userID, month string) ([]*budget.Budget, error) {
	if m.ListByUserAndMonthFunc != nil {
		return m.ListByUserAndMonthFunc(ctx, userID, month)
	}
	return nil, nil
}

type MockAccountRepo struct {
	ListByUserIDFunc func(ctx context.Context, userID string) ([]*account.Account, error)
}

func (m *MockAccountRepo) Upsert(ctx context.Context, params account.UpsertParams) error {
	return nil
}
func (m *MockAccountRepo) ListByUserID(ctx context.Context, userID string) ([]*account.Account, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func newTestService(tx *MockTransactionRepo, bd *MockBudgetRepo, acc *MockAccountRepo) *Service {
	if tx == nil {
		tx = &MockTransactionRepo{}
	}
	if bd == nil {
		bd = &MockBudgetRepo{}
	}
	if acc == nil {
		acc = &MockAccountRepo{}
	}
	svc := NewService(tx, bd, acc, nil)
	svc.now = func() time.Time {
		return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCashflow(t *testing.T) {
	ctx := context.Background()

	tx := &MockTransactionRepo{
		ListRecentByUserIDFunc: func(ctx context.Context, userID string, limit int) ([]*transaction.Transaction, error) {
			return []*transaction.Transaction{
				{Amount: -3000, Date: date(2024, 6, 1)},  // income
				{Amount: 1200, Date: date(2024, 6, 5)},   // expense
				{Amount: 800, Date: date(2024, 6, 20)},   // expense
				{Amount: -2500, Date: date(2024, 5, 1)},  // prior month income
				{Amount: 2700, Date: date(2024, 5, 10)},  // prior month expense
			}, nil
		},
	}
	svc := newTestService(tx, nil, nil)

	got, err := svc.Cashflow(ctx, "demo", 6)
	if err != nil {
		t.Fatalf("Cashflow() unexpected error: %v", err)
	}
	if len(got.Series) != 2 {
		t.Fatalf("Cashflow() series length = %d, want 2", len(got.Series))
	}

	may := got.Series[0]
	if may.Month != "2024-05" {
		t.Errorf("Cashflow() first month = %q, want 2024-05", may.Month)
	}
	if may.Net != -200 {
		t.Errorf("Cashflow() may net = %v, want -200", may.Net)
	}

	june := got.Series[1]
	if june.Income != 3000 || june.Expenses != 2000 || june.Net != 1000 {
		t.Errorf("Cashflow() june = %+v, want income 3000 expenses 2000 net 1000", june)
	}

	// net must always equal income - expenses per bucket
	for _, m := range got.Series {
		if m.Net != m.Income-m.Expenses {
			t.Errorf("Cashflow() month %s net %v != income %v - expenses %v", m.Month, m.Net, m.Income, m.Expenses)
		}
	}

	if got.SavingsRate != 33.3 {
		t.Errorf("Cashflow() savings rate = %v, want 33.3", got.SavingsRate)
	}
	if got.MonthlyBurn != 0 {
		t.Errorf("Cashflow() monthly burn = %v, want 0 for positive net", got.MonthlyBurn)
	}
}

func TestCashflowTrailingWindow(t *testing.T) {
	ctx := context.Background()

	tx := &MockTransactionRepo{
		ListRecentByUserIDFunc: func(ctx context.Context, userID string, limit int) ([]*transaction.Transaction, error) {
			rows := []*transaction.Transaction{}
			for m := time.January; m <= time.June; m++ {
				rows = append(rows, &transaction.Transaction{Amount: 100, Date: date(2024, m, 10)})
			}
			return rows, nil
		},
	}
	svc := newTestService(tx, nil, nil)

	got, err := svc.Cashflow(ctx, "demo", 3)
	if err != nil {
		t.Fatalf("Cashflow() unexpected error: %v", err)
	}
	if len(got.Series) != 3 {
		t.Fatalf("Cashflow() series length = %d, want 3", len(got.Series))
	}
	if got.Series[0].Month != "2024-04" || got.Series[2].Month != "2024-06" {
		t.Errorf("Cashflow() window = %s..%s, want 2024-04..2024-06",
			got.Series[0].Month, got.Series[2].Month)
	}
}

func TestCashflowMonthlyBurn(t *testing.T) {
	ctx := context.Background()

	tx := &MockTransactionRepo{
		ListRecentByUserIDFunc: func(ctx context.Context, userID string, limit int) ([]*transaction.Transaction, error) {
			return []*transaction.Transaction{
				{Amount: -1000, Date: date(2024, 6, 1)},
				{Amount: 1500, Date: date(2024, 6, 10)},
			}, nil
		},
	}
	svc := newTestService(tx, nil, nil)

	got, err := svc.Cashflow(ctx, "demo", 6)
	if err != nil {
		t.Fatalf("Cashflow() unexpected error: %v", err)
	}
	if got.MonthlyBurn != 500 {
		t.Errorf("Cashflow() monthly burn = %v, want 500", got.MonthlyBurn)
	}
	if got.SavingsRate != -50 {
		t.Errorf("Cashflow() savings rate = %v, want -50", got.SavingsRate)
	}
}

func TestTopCategories(t *testing.T) {
	ctx := context.Background()

	var gotSince time.Time
	tx := &MockTransactionRepo{
		ListSinceByUserIDFunc: func(ctx context.Context, userID string, since time.Time) ([]*transaction.Transaction, error) {
			gotSince = since
			return []*transaction.Transaction{
				{Amount: 120, Category: "Groceries", Date: date(2024, 5, 2)},
				{Amount: 80, Category: "Groceries", Date: date(2024, 5, 12)},
				{Amount: 300, Category: "Rent", Date: date(2024, 5, 1)},
				{Amount: -50, Category: "Groceries", Date: date(2024, 5, 20)}, // refund, ignored
				{Amount: 10, Category: "", Date: date(2024, 5, 25)},
			}, nil
		},
	}
	svc := newTestService(tx, nil, nil)

	got, err := svc.TopCategories(ctx, "demo", 3)
	if err != nil {
		t.Fatalf("TopCategories() unexpected error: %v", err)
	}

	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !gotSince.Equal(want) {
		t.Errorf("TopCategories() since = %v, want %v", gotSince, want)
	}

	if len(got) != 3 {
		t.Fatalf("TopCategories() length = %d, want 3", len(got))
	}
	if got[0].Name != "Rent" || got[0].Value != 300 {
		t.Errorf("TopCategories()[0] = %+v, want Rent 300", got[0])
	}
	if got[1].Name != "Groceries" || got[1].Value != 200 {
		t.Errorf("TopCategories()[1] = %+v, want Groceries 200 (refund excluded)", got[1])
	}
	if got[2].Name != transaction.DefaultCategory {
		t.Errorf("TopCategories()[2] name = %q, want %q", got[2].Name, transaction.DefaultCategory)
	}
}

func TestTopCategoriesCap(t *testing.T) {
	ctx := context.Background()

	tx := &MockTransactionRepo{
		ListSinceByUserIDFunc: func(ctx context.Context, userID string, since time.Time) ([]*transaction.Transaction, error) {
			rows := []*transaction.Transaction{}
			for i := 0; i < 15; i++ {
				rows = append(rows, &transaction.Transaction{
					Amount:   float64(i + 1),
					Category: string(rune('A' + i)),
					Date:     date(2024, 5, 1),
				})
			}
			return rows, nil
		},
	}
	svc := newTestService(tx, nil, nil)

	got, err := svc.TopCategories(ctx, "demo", 3)
	if err != nil {
		t.Fatalf("TopCategories() unexpected error: %v", err)
	}
	if len(got) != maxCategories {
		t.Errorf("TopCategories() length = %d, want %d", len(got), maxCategories)
	}
	if got[0].Value != 15 {
		t.Errorf("TopCategories()[0] value = %v, want 15", got[0].Value)
	}
}

func TestUpcomingBills(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		rows     []*transaction.Transaction
		wantLen  int
		merchant string
		amount   float64
		dueDate  string
	}{
		{
			name: "monthly cadence predicts next charge",
			rows: []*transaction.Transaction{
				{MerchantName: "Netflix", Amount: 15.99, Date: date(2024, 6, 1)},
				{MerchantName: "Netflix", Amount: 15.99, Date: date(2024, 5, 2)},
				{MerchantName: "Netflix", Amount: 15.99, Date: date(2024, 4, 2)},
			},
			wantLen:  1,
			merchant: "Netflix",
			amount:   15.99,
			dueDate:  "2024-07-01",
		},
		{
			name: "ten day gaps are not bills",
			rows: []*transaction.Transaction{
				{MerchantName: "Corner Deli", Amount: 12, Date: date(2024, 6, 20)},
				{MerchantName: "Corner Deli", Amount: 12, Date: date(2024, 6, 10)},
				{MerchantName: "Corner Deli", Amount: 12, Date: date(2024, 5, 31)},
			},
			wantLen: 0,
		},
		{
			name: "two occurrences are not enough",
			rows: []*transaction.Transaction{
				{MerchantName: "Gym", Amount: 40, Date: date(2024, 6, 1)},
				{MerchantName: "Gym", Amount: 40, Date: date(2024, 5, 2)},
			},
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &MockTransactionRepo{
				ListRecentByUserIDFunc: func(ctx context.Context, userID string, limit int) ([]*transaction.Transaction, error) {
					return tt.rows, nil
				},
			}
			svc := newTestService(tx, nil, nil)

			got, err := svc.UpcomingBills(ctx, "demo")
			if err != nil {
				t.Fatalf("UpcomingBills() unexpected error: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("UpcomingBills() length = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen == 0 {
				return
			}
			if got[0].Merchant != tt.merchant {
				t.Errorf("UpcomingBills() merchant = %q, want %q", got[0].Merchant, tt.merchant)
			}
			if got[0].ExpectedAmount != tt.amount {
				t.Errorf("UpcomingBills() amount = %v, want %v", got[0].ExpectedAmount, tt.amount)
			}
			if got[0].ExpectedDate != tt.dueDate {
				t.Errorf("UpcomingBills() date = %q, want %q", got[0].ExpectedDate, tt.dueDate)
			}
		})
	}
}

func TestUpcomingBillsMerchantFallback(t *testing.T) {
	ctx := context.Background()

	// No merchant name set; grouping must fall back to the transaction name.
	tx := &MockTransactionRepo{
		ListRecentByUserIDFunc: func(ctx context.Context, userID string, limit int) ([]*transaction.Transaction, error) {
			return []*transaction.Transaction{
				{Name: "CITY POWER & LIGHT", Amount: 90, Date: date(2024, 6, 3)},
				{Name: "CITY POWER & LIGHT", Amount: 85, Date: date(2024, 5, 4)},
				{Name: "CITY POWER & LIGHT", Amount: 95, Date: date(2024, 4, 3)},
			}, nil
		},
	}
	svc := newTestService(tx, nil, nil)

	got, err := svc.UpcomingBills(ctx, "demo")
	if err != nil {
		t.Fatalf("UpcomingBills() unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("UpcomingBills() length = %d, want 1", len(got))
	}
	if got[0].Merchant != "CITY POWER & LIGHT" {
		t.Errorf("UpcomingBills() merchant = %q, want name fallback", got[0].Merchant)
	}
	if got[0].ExpectedAmount != 90 {
		t.Errorf("UpcomingBills() amount = %v, want mean 90", got[0].ExpectedAmount)
	}
}

func TestBudgetsStatus(t *testing.T) {
	ctx := context.Background()

	bd := &MockBudgetRepo{
		ListByUserAndMonthFunc: func(ctx context.Context, userID, month string) ([]*budget.Budget, error) {
			return []*budget.Budget{
				{Category: "Food", Month: month, Amount: 100},
				{Category: "Transport", Month: month, Amount: 100},
				{Category: "Fun", Month: month, Amount: 50},
			}, nil
		},
	}
	tx := &MockTransactionRepo{
		SpendByCategoryForMonthFunc: func(ctx context.Context, userID, month string) (map[string]float64, error) {
			return map[string]float64{"Food": 120, "Transport": 80}, nil
		},
	}
	svc := newTestService(tx, bd, nil)

	got, err := svc.BudgetsStatus(ctx, "demo", "2024-06")
	if err != nil {
		t.Fatalf("BudgetsStatus() unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("BudgetsStatus() length = %d, want 3", len(got))
	}

	food := got[0]
	if food.Spent != 120 || food.Remaining != -20 || !food.Over {
		t.Errorf("BudgetsStatus() food = %+v, want spent 120 remaining -20 over", food)
	}

	transport := got[1]
	if transport.Spent != 80 || transport.Remaining != 20 || transport.Over {
		t.Errorf("BudgetsStatus() transport = %+v, want spent 80 remaining 20 not over", transport)
	}

	fun := got[2]
	if fun.Spent != 0 || fun.Remaining != 50 || fun.Over {
		t.Errorf("BudgetsStatus() fun = %+v, want zero spend", fun)
	}
}

func TestBudgetsStatusDefaultsToCurrentMonth(t *testing.T) {
	ctx := context.Background()

	var gotMonth string
	bd := &MockBudgetRepo{
		ListByUserAndMonthFunc: func(ctx context.Context, userID, month string) ([]*budget.Budget, error) {
			gotMonth = month
			return nil, nil
		},
	}
	svc := newTestService(nil, bd, nil)

	if _, err := svc.BudgetsStatus(ctx, "demo", ""); err != nil {
		t.Fatalf("BudgetsStatus() unexpected error: %v", err)
	}
	if gotMonth != "2024-06" {
		t.Errorf("BudgetsStatus() month = %q, want 2024-06", gotMonth)
	}
}

func TestAccountsSnapshot(t *testing.T) {
	ctx := context.Background()

	ptr := func(v float64) *float64 { return &v }

	acc := &MockAccountRepo{
		ListByUserIDFunc: func(ctx context.Context, userID string) ([]*account.Account, error) {
			return []*account.Account{
				{Name: "Checking", Type: "depository", Current: ptr(500)},
				{Name: "Visa", Type: "credit", Current: ptr(-200)},
				{Name: "Empty", Type: "depository"},
			}, nil
		},
	}
	svc := newTestService(nil, nil, acc)

	got, err := svc.AccountsSnapshot(ctx, "demo")
	if err != nil {
		t.Fatalf("AccountsSnapshot() unexpected error: %v", err)
	}
	if got.NetWorth != 300 {
		t.Errorf("AccountsSnapshot() net worth = %v, want 300", got.NetWorth)
	}
	if len(got.Accounts) != 3 {
		t.Errorf("AccountsSnapshot() accounts = %d, want 3", len(got.Accounts))
	}
}

func TestAccountsSnapshotRepoError(t *testing.T) {
	ctx := context.Background()

	acc := &MockAccountRepo{
		ListByUserIDFunc: func(ctx context.Context, userID string) ([]*account.Account, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(nil, nil, acc)

	if _, err := svc.AccountsSnapshot(ctx, "demo"); err == nil {
		t.Errorf("AccountsSnapshot() expected error, got nil")
	}
}
