// Package chat answers natural-language questions about a user's finances.
// Every answer is grounded in a context document assembled from the stored
// data; the language model only ever rephrases that context, and when no
// model is configured a templated summary answers instead.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"copilot/internal/domain/insights"
	"copilot/internal/domain/transaction"
	"copilot/internal/infrastructure/llm"
)

const (
	maxRelevantTransactions = 20

	systemPrompt = "You are a personal finance assistant. Answer using only " +
		"the JSON context provided. Be concise and concrete: cite amounts and " +
		"dates from the context. If the context does not contain the answer, " +
		"say so instead of guessing."
)

// SourceLLM and SourceFallback identify which path produced an answer.
const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

// InsightsProvider is the slice of the insights engine the chat context
// needs.
type InsightsProvider interface {
	Cashflow(ctx context.Context, userID string, months int) (*insights.CashflowSummary, error)
	TopCategories(ctx context.Context, userID string, months int) ([]insights.CategorySpend, error)
	UpcomingBills(ctx context.Context, userID string) ([]insights.UpcomingBill, error)
	BudgetsStatus(ctx context.Context, userID, month string) ([]insights.BudgetStatus, error)
	AccountsSnapshot(ctx context.Context, userID string) (*insights.Snapshot, error)
}

// Asker is the language-model dependency.
type Asker interface {
	Ask(ctx context.Context, system, prompt string) (string, error)
}

// Context is the grounding document for one question. It is also served
// raw so the frontend can render the same numbers the model saw.
type Context struct {
	Month                string                     `json:"month"`
	Cashflow             *insights.CashflowSummary  `json:"cashflow"`
	TopCategories        []insights.CategorySpend   `json:"topCategories"`
	UpcomingBills        []insights.UpcomingBill    `json:"upcomingBills"`
	Budgets              []insights.BudgetStatus    `json:"budgets"`
	Accounts             *insights.Snapshot         `json:"accounts"`
	RelevantTransactions []*transaction.Transaction `json:"relevantTransactions"`
}

// Answer is the reply to one question.
type Answer struct {
	Answer string `json:"answer"`
	Source string `json:"source"`
}

type Service struct {
	insights     InsightsProvider
	transactions transaction.Repository
	llm          Asker
	now          func() time.Time
}

func NewService(insights InsightsProvider, transactions transaction.Repository, llm Asker) *Service {
	return &Service{
		insights:     insights,
		transactions: transactions,
		llm:          llm,
		now:          time.Now,
	}
}

// BuildContext assembles the full grounding document, including the
// transactions matching the question's keywords. A question made only of
// stop words skips the search entirely.
func (s *Service) BuildContext(ctx context.Context, userID, question string) (*Context, error) {
	cashflow, err := s.insights.Cashflow(ctx, userID, insights.DefaultCashflowMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to build cashflow context: %w", err)
	}

	categories, err := s.insights.TopCategories(ctx, userID, insights.DefaultCategoryMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to build category context: %w", err)
	}

	bills, err := s.insights.UpcomingBills(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build bills context: %w", err)
	}

	month := s.now().Format("2006-01")
	budgets, err := s.insights.BudgetsStatus(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to build budgets context: %w", err)
	}

	accounts, err := s.insights.AccountsSnapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build accounts context: %w", err)
	}

	relevant := []*transaction.Transaction{}
	if keywords := ExtractKeywords(question); len(keywords) > 0 {
		relevant, err = s.transactions.SearchByKeywords(ctx, userID, keywords, maxRelevantTransactions)
		if err != nil {
			return nil, fmt.Errorf("failed to search transactions: %w", err)
		}
		if relevant == nil {
			relevant = []*transaction.Transaction{}
		}
	}

	return &Context{
		Month:                month,
		Cashflow:             cashflow,
		TopCategories:        categories,
		UpcomingBills:        bills,
		Budgets:              budgets,
		Accounts:             accounts,
		RelevantTransactions: relevant,
	}, nil
}

// Ask answers a question. The model path and the fallback path share the
// same context, so a missing or failing model degrades to a plain summary
// rather than an error.
func (s *Service) Ask(ctx context.Context, userID, question string) (*Answer, error) {
	chatCtx, err := s.BuildContext(ctx, userID, question)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(chatCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat context: %w", err)
	}

	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", payload, question)

	text, err := s.llm.Ask(ctx, systemPrompt, prompt)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			log.Printf("chat: model call failed, using fallback: %v", err)
		}
		return &Answer{Answer: s.fallbackAnswer(chatCtx), Source: SourceFallback}, nil
	}

	return &Answer{Answer: text, Source: SourceLLM}, nil
}

// fallbackAnswer summarizes the context without a model.
func (s *Service) fallbackAnswer(chatCtx *Context) string {
	var b strings.Builder

	last := chatCtx.Cashflow.LastMonth
	if last.Month != "" {
		fmt.Fprintf(&b, "In %s you earned %.2f and spent %.2f (net %.2f, savings rate %.1f%%).",
			last.Month, last.Income, last.Expenses, last.Net, chatCtx.Cashflow.SavingsRate)
	} else {
		b.WriteString("There is no transaction history to report on yet.")
	}

	if len(chatCtx.TopCategories) > 0 {
		top := chatCtx.TopCategories[0]
		fmt.Fprintf(&b, " Your biggest spending category recently is %s at %.2f.", top.Name, top.Value)
	}

	if len(chatCtx.UpcomingBills) > 0 {
		bill := chatCtx.UpcomingBills[0]
		fmt.Fprintf(&b, " Next expected bill: %s for about %.2f on %s.",
			bill.Merchant, bill.ExpectedAmount, bill.ExpectedDate)
	}

	if chatCtx.Accounts != nil {
		fmt.Fprintf(&b, " Current net worth across accounts: %.2f.", chatCtx.Accounts.NetWorth)
	}

	if n := len(chatCtx.RelevantTransactions); n > 0 {
		fmt.Fprintf(&b, " I found %d transactions matching your question.", n)
	}

	return b.String()
}
