package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"copilot/internal/domain/transaction"
)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

var _ transaction.Repository = (*TransactionRepository)(nil)

const transactionColumns = `t.id, t.item_id, t.account_id, t.transaction_id, t.amount, t.iso_currency_code,
       t.date, t.authorized_date, t.name, t.merchant_name, t.category, t.pending, t.created_at`

// InsertIgnore inserts a transaction keyed by the provider transaction id.
// Duplicate ids across pages or syncs are expected and are no-ops.
func (r *TransactionRepository) InsertIgnore(ctx context.Context, params transaction.UpsertParams) (bool, error) {
	query := `
		INSERT INTO transactions (item_id, account_id, transaction_id, amount, iso_currency_code,
		                          date, authorized_date, name, merchant_name, category, pending)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (transaction_id) DO NOTHING
	`

	result, err := r.db.ExecContext(
		ctx, query,
		params.ItemID, params.AccountID, params.TransactionID, params.Amount, params.ISOCurrencyCode,
		params.Date, params.AuthorizedDate, params.Name, params.MerchantName, params.Category, params.Pending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

// UpdateByTransactionID applies a modified delta in place.
func (r *TransactionRepository) UpdateByTransactionID(ctx context.Context, params transaction.UpsertParams) (bool, error) {
	query := `
		UPDATE transactions
		SET amount = $1,
		    iso_currency_code = $2,
		    date = $3,
		    authorized_date = $4,
		    name = $5,
		    merchant_name = $6,
		    category = $7,
		    pending = $8
		WHERE transaction_id = $9
	`

	result, err := r.db.ExecContext(
		ctx, query,
		params.Amount, params.ISOCurrencyCode, params.Date, params.AuthorizedDate,
		params.Name, params.MerchantName, params.Category, params.Pending,
		params.TransactionID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

// DeleteByTransactionIDs removes transactions the provider tombstoned.
func (r *TransactionRepository) DeleteByTransactionIDs(ctx context.Context, transactionIDs []string) (int64, error) {
	if len(transactionIDs) == 0 {
		return 0, nil
	}

	query := `DELETE FROM transactions WHERE transaction_id = ANY($1)`

	result, err := r.db.ExecContext(ctx, query, pq.Array(transactionIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

func (r *TransactionRepository) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]*transaction.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions t
		JOIN items i ON t.item_id = i.id
		WHERE i.user_id = $1
		ORDER BY t.date DESC, t.id DESC
		LIMIT $2
	`, transactionColumns)

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *TransactionRepository) ListSinceByUserID(ctx context.Context, userID string, since time.Time) ([]*transaction.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions t
		JOIN items i ON t.item_id = i.id
		WHERE i.user_id = $1 AND t.date >= $2
		ORDER BY t.date DESC, t.id DESC
	`, transactionColumns)

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions since %s: %w", since.Format("2006-01-02"), err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// SpendByCategoryForMonth sums positive amounts per category; inflows
// never contribute to spend.
func (r *TransactionRepository) SpendByCategoryForMonth(ctx context.Context, userID, month string) (map[string]float64, error) {
	query := `
		SELECT t.category, SUM(t.amount)
		FROM transactions t
		JOIN items i ON t.item_id = i.id
		WHERE i.user_id = $1 AND to_char(t.date, 'YYYY-MM') = $2 AND t.amount > 0
		GROUP BY t.category
	`

	rows, err := r.db.QueryContext(ctx, query, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to sum spend by category: %w", err)
	}
	defer rows.Close()

	spend := make(map[string]float64)
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("failed to scan category spend: %w", err)
		}
		if category == "" {
			category = transaction.DefaultCategory
		}
		spend[category] += total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category spend: %w", err)
	}
	return spend, nil
}

// ListPage returns one page of the filtered listing plus the total count.
func (r *TransactionRepository) ListPage(ctx context.Context, q transaction.ListQuery) ([]*transaction.WithInstitution, int64, error) {
	where := []string{"i.user_id = $1"}
	args := []any{q.UserID}

	if q.Month != "" {
		args = append(args, q.Month)
		where = append(where, fmt.Sprintf("to_char(t.date, 'YYYY-MM') = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(t.name ILIKE $%d OR t.merchant_name ILIKE $%d OR t.category ILIKE $%d)", n, n, n))
	}

	base := fmt.Sprintf(`
		FROM transactions t
		JOIN items i ON t.item_id = i.id
		WHERE %s
	`, strings.Join(where, " AND "))

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) "+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	args = append(args, q.Limit, q.Offset)
	query := fmt.Sprintf(`
		SELECT %s, i.institution_name %s
		ORDER BY t.date DESC, t.id DESC
		LIMIT $%d OFFSET $%d
	`, transactionColumns, base, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var page []*transaction.WithInstitution
	for rows.Next() {
		var t transaction.WithInstitution
		err := rows.Scan(
			&t.ID, &t.ItemID, &t.AccountID, &t.TransactionID, &t.Amount, &t.ISOCurrencyCode,
			&t.Date, &t.AuthorizedDate, &t.Name, &t.MerchantName, &t.Category, &t.Pending, &t.CreatedAt,
			&t.InstitutionName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		page = append(page, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating transactions: %w", err)
	}
	return page, total, nil
}

// SearchByKeywords matches any token against name, merchant name or
// category, OR across both tokens and fields.
func (r *TransactionRepository) SearchByKeywords(ctx context.Context, userID string, tokens []string, limit int) ([]*transaction.Transaction, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	args := []any{userID}
	var conditions []string
	for _, token := range tokens {
		args = append(args, "%"+token+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(t.name ILIKE $%d OR t.merchant_name ILIKE $%d OR t.category ILIKE $%d)", n, n, n))
	}

	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions t
		JOIN items i ON t.item_id = i.id
		WHERE i.user_id = $1 AND (%s)
		ORDER BY t.date DESC, t.id DESC
		LIMIT $%d
	`, transactionColumns, strings.Join(conditions, " OR "), len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTransactions(rows rowScanner) ([]*transaction.Transaction, error) {
	var transactions []*transaction.Transaction
	for rows.Next() {
		var t transaction.Transaction
		err := rows.Scan(
			&t.ID, &t.ItemID, &t.AccountID, &t.TransactionID, &t.Amount, &t.ISOCurrencyCode,
			&t.Date, &t.AuthorizedDate, &t.Name, &t.MerchantName, &t.Category, &t.Pending, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}
