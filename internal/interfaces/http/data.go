package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"copilot/internal/domain/budget"
	"copilot/internal/domain/insights"
	"copilot/internal/domain/investment"
	"copilot/internal/domain/sync"
	"copilot/internal/domain/user"
)

// DataHandler serves the sync triggers and the derived read endpoints.
type DataHandler struct {
	sync        *sync.Service
	insights    *insights.Service
	budgets     budget.Repository
	investments investment.Repository
}

func NewDataHandler(
	syncService *sync.Service,
	insightsService *insights.Service,
	budgets budget.Repository,
	investments investment.Repository,
) *DataHandler {
	return &DataHandler{
		sync:        syncService,
		insights:    insightsService,
		budgets:     budgets,
		investments: investments,
	}
}

type syncResponse struct {
	RunID string `json:"runId"`
	Data  any    `json:"data"`
}

// HandleSyncTransactions pulls the incremental transaction deltas for
// every linked item. The response carries per-item status entries, so a
// partially failed run still returns 200 with the failures listed.
func (h *DataHandler) HandleSyncTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	runID := uuid.New().String()
	log.Printf("Transaction sync run %s started", runID)

	result, err := h.sync.SyncTransactions(r.Context())
	if err != nil {
		log.Printf("Transaction sync run %s failed: %v", runID, err)
		respondErrorDetails(w, http.StatusInternalServerError, "transaction sync failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, syncResponse{RunID: runID, Data: result})
}

// HandleSyncAccounts refreshes the account snapshots for every item.
func (h *DataHandler) HandleSyncAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	runID := uuid.New().String()
	log.Printf("Account sync run %s started", runID)

	result, err := h.sync.SyncAccounts(r.Context())
	if err != nil {
		log.Printf("Account sync run %s failed: %v", runID, err)
		respondErrorDetails(w, http.StatusInternalServerError, "account sync failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, syncResponse{RunID: runID, Data: result})
}

// HandleSyncInvestments replaces the holding snapshots for every item.
func (h *DataHandler) HandleSyncInvestments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	runID := uuid.New().String()
	log.Printf("Investment sync run %s started", runID)

	result, err := h.sync.SyncInvestments(r.Context())
	if err != nil {
		log.Printf("Investment sync run %s failed: %v", runID, err)
		respondErrorDetails(w, http.StatusInternalServerError, "investment sync failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, syncResponse{RunID: runID, Data: result})
}

type summaryResponse struct {
	Cashflow      *insights.CashflowSummary `json:"cashflow"`
	TopCategories []insights.CategorySpend  `json:"topCategories"`
	UpcomingBills []insights.UpcomingBill   `json:"upcomingBills"`
	Budgets       []insights.BudgetStatus   `json:"budgets"`
	Accounts      *insights.Snapshot        `json:"accounts"`
}

// HandleSummary returns the full dashboard payload in one response.
func (h *DataHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx := r.Context()
	userID := user.DefaultUserID

	cashflow, err := h.insights.Cashflow(ctx, userID, insights.DefaultCashflowMonths)
	if err != nil {
		log.Printf("Error building cashflow summary: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}

	categories, err := h.insights.TopCategories(ctx, userID, insights.DefaultCategoryMonths)
	if err != nil {
		log.Printf("Error ranking categories: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}

	bills, err := h.insights.UpcomingBills(ctx, userID)
	if err != nil {
		log.Printf("Error predicting bills: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}

	budgets, err := h.insights.BudgetsStatus(ctx, userID, "")
	if err != nil {
		log.Printf("Error joining budgets: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}

	accounts, err := h.insights.AccountsSnapshot(ctx, userID)
	if err != nil {
		log.Printf("Error loading accounts: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}

	respondJSON(w, http.StatusOK, summaryResponse{
		Cashflow:      cashflow,
		TopCategories: categories,
		UpcomingBills: bills,
		Budgets:       budgets,
		Accounts:      accounts,
	})
}

type createBudgetRequest struct {
	Month    string  `json:"month"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// HandleBudgets lists budget status for a month (GET) or posts a new
// budget row (POST). Posting the same month and category again adds a row
// rather than replacing the old one.
func (h *DataHandler) HandleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		month := r.URL.Query().Get("month")
		if month != "" && !monthPattern.MatchString(month) {
			respondError(w, http.StatusBadRequest, "month must be formatted YYYY-MM")
			return
		}

		statuses, err := h.insights.BudgetsStatus(r.Context(), user.DefaultUserID, month)
		if err != nil {
			log.Printf("Error listing budgets: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to list budgets")
			return
		}
		respondJSON(w, http.StatusOK, statuses)

	case http.MethodPost:
		var req createBudgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Category == "" || req.Amount <= 0 {
			respondError(w, http.StatusBadRequest, "category and a positive amount are required")
			return
		}
		if !monthPattern.MatchString(req.Month) {
			respondError(w, http.StatusBadRequest, "month must be formatted YYYY-MM")
			return
		}

		created, err := h.budgets.Create(r.Context(), user.DefaultUserID, req.Month, req.Category, req.Amount)
		if err != nil {
			log.Printf("Error creating budget: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to create budget")
			return
		}
		respondJSON(w, http.StatusCreated, created)

	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// HandleInvestments lists the user's holdings joined with securities.
func (h *DataHandler) HandleInvestments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	holdings, err := h.investments.ListByUserID(r.Context(), user.DefaultUserID)
	if err != nil {
		log.Printf("Error listing holdings: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list holdings")
		return
	}
	if holdings == nil {
		holdings = []*investment.HoldingWithSecurity{}
	}

	respondJSON(w, http.StatusOK, holdings)
}
