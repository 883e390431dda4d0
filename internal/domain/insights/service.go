// Package insights computes derived financial summaries: cashflow series,
// category spend rankings, recurring-bill predictions, budget status and a
// net-worth snapshot. Everything here is a pure read over current store
// state, always scoped to one user through the item relationship.
package insights

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"copilot/internal/domain/account"
	"copilot/internal/domain/budget"
	"copilot/internal/domain/transaction"
)

const (
	// DefaultCashflowMonths is the trailing window for the cashflow series.
	DefaultCashflowMonths = 6
	// DefaultCategoryMonths is the trailing window for category rankings.
	DefaultCategoryMonths = 3

	maxScannedTransactions = 5000
	maxCategories          = 10
	maxBillPredictions     = 10
)

// Service is the insights engine.
type Service struct {
	transactions transaction.Repository
	budgets      budget.Repository
	accounts     account.Repository
	detector     RecurrenceDetector
	now          func() time.Time
}

func NewService(
	transactions transaction.Repository,
	budgets budget.Repository,
	accounts account.Repository,
	detector RecurrenceDetector,
) *Service {
	if detector == nil {
		detector = NewMonthlyGapDetector()
	}
	return &Service{
		transactions: transactions,
		budgets:      budgets,
		accounts:     accounts,
		detector:     detector,
		now:          time.Now,
	}
}

// MonthCashflow is one month's bucket in the cashflow series.
type MonthCashflow struct {
	Month    string  `json:"month"` // 'YYYY-MM'
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// CashflowSummary is the trailing cashflow series with derived rates for
// the most recent month.
type CashflowSummary struct {
	Series      []MonthCashflow `json:"series"`
	LastMonth   MonthCashflow   `json:"lastMonth"`
	SavingsRate float64         `json:"savingsRate"`
	MonthlyBurn float64         `json:"monthlyBurn"`
}

// Cashflow buckets the user's recent transactions by calendar month.
// Negative amounts are inflows and count as income at their magnitude;
// positive amounts count as expenses. Net is always income − expenses.
func (s *Service) Cashflow(ctx context.Context, userID string, months int) (*CashflowSummary, error) {
	if months <= 0 {
		months = DefaultCashflowMonths
	}

	rows, err := s.transactions.ListRecentByUserID(ctx, userID, maxScannedTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	type bucket struct {
		income   decimal.Decimal
		expenses decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	for _, t := range rows {
		m := t.Date.Format("2006-01")
		b, ok := buckets[m]
		if !ok {
			b = &bucket{}
			buckets[m] = b
		}
		amount := decimal.NewFromFloat(t.Amount)
		if t.Amount < 0 {
			b.income = b.income.Add(amount.Abs())
		} else {
			b.expenses = b.expenses.Add(amount)
		}
	}

	keys := make([]string, 0, len(buckets))
	for m := range buckets {
		keys = append(keys, m)
	}
	sort.Strings(keys)
	if len(keys) > months {
		keys = keys[len(keys)-months:]
	}

	summary := &CashflowSummary{Series: make([]MonthCashflow, 0, len(keys))}
	for _, m := range keys {
		b := buckets[m]
		income, _ := b.income.Round(2).Float64()
		expenses, _ := b.expenses.Round(2).Float64()
		net, _ := b.income.Sub(b.expenses).Round(2).Float64()
		summary.Series = append(summary.Series, MonthCashflow{
			Month:    m,
			Income:   income,
			Expenses: expenses,
			Net:      net,
		})
	}

	if len(summary.Series) > 0 {
		last := summary.Series[len(summary.Series)-1]
		summary.LastMonth = last
		if last.Income != 0 {
			rate := decimal.NewFromFloat(last.Income).
				Sub(decimal.NewFromFloat(last.Expenses)).
				Div(decimal.NewFromFloat(last.Income)).
				Mul(decimal.NewFromInt(100))
			summary.SavingsRate, _ = rate.Round(1).Float64()
		}
		if last.Net < 0 {
			summary.MonthlyBurn = -last.Net
		}
	}

	return summary, nil
}

// CategorySpend is one category's positive-spend total.
type CategorySpend struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// TopCategories ranks spend per category over the trailing months window,
// measured from the first day of the current month. Only positive amounts
// count; inflows never reduce a category's total.
func (s *Service) TopCategories(ctx context.Context, userID string, months int) ([]CategorySpend, error) {
	if months <= 0 {
		months = DefaultCategoryMonths
	}

	now := s.now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -months, 0)

	rows, err := s.transactions.ListSinceByUserID(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	totals := make(map[string]decimal.Decimal)
	order := []string{}
	for _, t := range rows {
		if t.Amount <= 0 {
			continue
		}
		cat := t.Category
		if cat == "" {
			cat = transaction.DefaultCategory
		}
		if _, ok := totals[cat]; !ok {
			order = append(order, cat)
		}
		totals[cat] = totals[cat].Add(decimal.NewFromFloat(t.Amount))
	}

	ranked := make([]CategorySpend, 0, len(order))
	for _, cat := range order {
		value, _ := totals[cat].Round(2).Float64()
		ranked = append(ranked, CategorySpend{Name: cat, Value: value})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Value > ranked[j].Value })

	if len(ranked) > maxCategories {
		ranked = ranked[:maxCategories]
	}
	return ranked, nil
}

// UpcomingBill is a predicted recurring charge.
type UpcomingBill struct {
	Merchant       string  `json:"merchant"`
	ExpectedAmount float64 `json:"expected_amount"`
	ExpectedDate   string  `json:"expected_date"` // 'YYYY-MM-DD'
}

// UpcomingBills runs the recurrence detector over each merchant's charge
// history. Results keep merchant first-seen order from the date-descending
// scan rather than sorting by date or confidence.
func (s *Service) UpcomingBills(ctx context.Context, userID string) ([]UpcomingBill, error) {
	rows, err := s.transactions.ListRecentByUserID(ctx, userID, maxScannedTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	byMerchant := make(map[string][]Occurrence)
	order := []string{}
	for _, t := range rows {
		key := t.Merchant()
		if key == "" {
			continue
		}
		if _, ok := byMerchant[key]; !ok {
			order = append(order, key)
		}
		byMerchant[key] = append(byMerchant[key], Occurrence{Date: t.Date, Amount: t.Amount})
	}

	bills := []UpcomingBill{}
	for _, merchant := range order {
		occurrences := byMerchant[merchant]
		sort.SliceStable(occurrences, func(i, j int) bool {
			return occurrences[i].Date.After(occurrences[j].Date)
		})

		prediction, ok := s.detector.Detect(occurrences)
		if !ok {
			continue
		}

		bills = append(bills, UpcomingBill{
			Merchant:       merchant,
			ExpectedAmount: prediction.ExpectedAmount,
			ExpectedDate:   prediction.ExpectedDate.Format("2006-01-02"),
		})
		if len(bills) == maxBillPredictions {
			break
		}
	}

	return bills, nil
}

// BudgetStatus joins one budget row against actual spend for its month.
type BudgetStatus struct {
	Category  string  `json:"category"`
	Budget    float64 `json:"budget"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
	Over      bool    `json:"over"`
}

// BudgetsStatus reports every budget row for the month with the summed
// positive spend in its category. Remaining may go negative; Over is
// derived from spent > budget so the two never disagree.
func (s *Service) BudgetsStatus(ctx context.Context, userID, month string) ([]BudgetStatus, error) {
	if month == "" {
		month = s.now().Format("2006-01")
	}

	rows, err := s.budgets.ListByUserAndMonth(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets: %w", err)
	}

	spend, err := s.transactions.SpendByCategoryForMonth(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load category spend: %w", err)
	}

	statuses := make([]BudgetStatus, 0, len(rows))
	for _, b := range rows {
		spent, _ := decimal.NewFromFloat(spend[b.Category]).Round(2).Float64()
		remaining, _ := decimal.NewFromFloat(b.Amount).
			Sub(decimal.NewFromFloat(spent)).Round(2).Float64()
		statuses = append(statuses, BudgetStatus{
			Category:  b.Category,
			Budget:    b.Amount,
			Spent:     spent,
			Remaining: remaining,
			Over:      spent > b.Amount,
		})
	}

	return statuses, nil
}

// Snapshot is the accounts listing with derived net worth.
type Snapshot struct {
	Accounts []*account.Account `json:"accounts"`
	NetWorth float64            `json:"netWorth"`
}

// AccountsSnapshot lists the user's accounts and computes net worth as
// assets minus the magnitude of liability balances. Balance preference per
// account is current, then available, then zero.
func (s *Service) AccountsSnapshot(ctx context.Context, userID string) (*Snapshot, error) {
	accounts, err := s.accounts.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	assets := decimal.Zero
	liabilities := decimal.Zero
	for _, a := range accounts {
		balance := decimal.NewFromFloat(a.Balance())
		if a.IsLiability() {
			liabilities = liabilities.Add(balance.Abs())
		} else {
			assets = assets.Add(balance)
		}
	}

	netWorth, _ := assets.Sub(liabilities).Round(2).Float64()
	if accounts == nil {
		accounts = []*account.Account{}
	}
	return &Snapshot{Accounts: accounts, NetWorth: netWorth}, nil
}
