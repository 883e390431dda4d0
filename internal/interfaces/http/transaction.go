package http

import (
	"log"
	"net/http"
	"regexp"
	"strconv"

	"copilot/internal/domain/transaction"
	"copilot/internal/domain/user"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

type TransactionHandler struct {
	transactions transaction.Repository
}

func NewTransactionHandler(transactions transaction.Repository) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

type transactionPage struct {
	Data   []*transaction.WithInstitution `json:"data"`
	Total  int64                          `json:"total"`
	Limit  int                            `json:"limit"`
	Offset int                            `json:"offset"`
}

// HandleList returns one page of the user's transactions, optionally
// filtered by month and a free-text search term.
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultPageSize
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
		if limit > maxPageSize {
			limit = maxPageSize
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		offset = parsed
	}

	month := r.URL.Query().Get("month")
	if month != "" && !monthPattern.MatchString(month) {
		respondError(w, http.StatusBadRequest, "month must be formatted YYYY-MM")
		return
	}

	query := transaction.ListQuery{
		UserID: user.DefaultUserID,
		Month:  month,
		Search: r.URL.Query().Get("q"),
		Limit:  limit,
		Offset: offset,
	}

	data, total, err := h.transactions.ListPage(r.Context(), query)
	if err != nil {
		log.Printf("Error listing transactions: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	if data == nil {
		data = []*transaction.WithInstitution{}
	}

	respondJSON(w, http.StatusOK, transactionPage{
		Data:   data,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}
