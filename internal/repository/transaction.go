package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly/internal/database"
	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
)

const transactionColumns = `transaction_id, user_id, category_id, type, amount, description,
	 transaction_date, recurrence_type, total_installments, current_installment,
	 is_cancelled, cancelled_at, series_id, created_at`

type TransactionRepository struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.RecurrenceType == "" {
		tx.RecurrenceType = models.RecurrenceNone
	}
	if tx.CurrentInstallment == 0 {
		tx.CurrentInstallment = 1
	}
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO transaction (user_id, category_id, type, amount, description, transaction_date,
		 recurrence_type, total_installments, current_installment, is_cancelled, cancelled_at, series_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING transaction_id, created_at`,
		tx.UserID, tx.CategoryID, tx.Type, tx.Amount, tx.Description, tx.TransactionDate,
		tx.RecurrenceType, tx.TotalInstallments, tx.CurrentInstallment, tx.IsCancelled, tx.CancelledAt, tx.SeriesID,
	).Scan(&tx.TransactionID, &tx.CreatedAt)
	return normalizeErr(err)
}

func (r *TransactionRepository) GetByID(ctx context.Context, transactionID, userID int64) (*models.Transaction, error) {
	tx := &models.Transaction{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+transactionColumns+`
		 FROM transaction WHERE transaction_id = $1 AND user_id = $2`,
		transactionID, userID,
	).Scan(scanTargets(tx)...)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return tx, nil
}

func (r *TransactionRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*models.Transaction, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transaction WHERE user_id = $1
		 ORDER BY transaction_date DESC, created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, normalizeErr(err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *TransactionRepository) GetByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.Transaction, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transaction WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date <= $3
		 ORDER BY transaction_date ASC, transaction_id ASC`,
		userID, start, end,
	)
	if err != nil {
		return nil, normalizeErr(err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE transaction SET category_id = $1, type = $2, amount = $3, description = $4,
		 transaction_date = $5
		 WHERE transaction_id = $6 AND user_id = $7`,
		tx.CategoryID, tx.Type, tx.Amount, tx.Description, tx.TransactionDate,
		tx.TransactionID, tx.UserID,
	)
	if err != nil {
		return normalizeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return finerr.NotFoundf("transaction %d", tx.TransactionID)
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, transactionID, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM transaction WHERE transaction_id = $1 AND user_id = $2`,
		transactionID, userID,
	)
	if err != nil {
		return normalizeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return finerr.NotFoundf("transaction %d", transactionID)
	}
	return nil
}

func (r *TransactionRepository) GetTotalByType(ctx context.Context, userID int64, start, end time.Time, txType models.TransactionType) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		 FROM transaction
		 WHERE user_id = $1 AND type = $2 AND transaction_date >= $3 AND transaction_date <= $4`,
		userID, txType, start, end,
	).Scan(&total)
	return total, normalizeErr(err)
}

func (r *TransactionRepository) GetSummaryByCategory(ctx context.Context, userID int64, start, end time.Time, txType models.TransactionType) (map[int64]decimal.Decimal, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT category_id, SUM(amount) AS total
		 FROM transaction
		 WHERE user_id = $1 AND type = $2 AND transaction_date >= $3 AND transaction_date <= $4
		 GROUP BY category_id`,
		userID, txType, start, end,
	)
	if err != nil {
		return nil, normalizeErr(err)
	}
	defer rows.Close()

	summary := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var categoryID *int64
		var total decimal.Decimal
		if err := rows.Scan(&categoryID, &total); err != nil {
			return nil, err
		}
		if categoryID != nil {
			summary[*categoryID] = total
		}
	}
	return summary, rows.Err()
}

// GetAnchor loads a series anchor regardless of owning user; the ledger
// operates across users.
func (r *TransactionRepository) GetAnchor(ctx context.Context, seriesID int64) (*models.Transaction, error) {
	tx := &models.Transaction{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+transactionColumns+`
		 FROM transaction WHERE transaction_id = $1 AND series_id IS NULL AND recurrence_type <> 'none'`,
		seriesID,
	).Scan(scanTargets(tx)...)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return tx, nil
}

// ListActiveSeries returns every non-cancelled series anchor.
func (r *TransactionRepository) ListActiveSeries(ctx context.Context) ([]*models.Transaction, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transaction
		 WHERE series_id IS NULL AND recurrence_type <> 'none' AND is_cancelled = FALSE
		 ORDER BY transaction_id`,
	)
	if err != nil {
		return nil, normalizeErr(err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// MaterializeNext inserts the generated instance and bumps the anchor's
// installment counter in one transaction. The partial unique index on
// (series_id, transaction_date) makes concurrent advancement collapse into a
// single winner; the loser gets finerr.ErrConflict.
func (r *TransactionRepository) MaterializeNext(ctx context.Context, anchor *models.Transaction, date time.Time, installment int) error {
	dbTx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer dbTx.Rollback(ctx)

	_, err = dbTx.Exec(ctx,
		`INSERT INTO transaction (user_id, category_id, type, amount, description, transaction_date,
		 recurrence_type, current_installment, series_id)
		 VALUES ($1, $2, $3, $4, $5, $6, 'none', $7, $8)`,
		anchor.UserID, anchor.CategoryID, anchor.Type, anchor.Amount, anchor.Description,
		date, installment, anchor.TransactionID,
	)
	if err != nil {
		return normalizeErr(err)
	}

	_, err = dbTx.Exec(ctx,
		`UPDATE transaction SET current_installment = $1 WHERE transaction_id = $2`,
		installment, anchor.TransactionID,
	)
	if err != nil {
		return normalizeErr(err)
	}

	return dbTx.Commit(ctx)
}

// CancelSeries marks a series anchor cancelled as of the given time.
func (r *TransactionRepository) CancelSeries(ctx context.Context, seriesID int64, at time.Time) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE transaction SET is_cancelled = TRUE, cancelled_at = $1
		 WHERE transaction_id = $2 AND series_id IS NULL AND recurrence_type <> 'none'`,
		at, seriesID,
	)
	if err != nil {
		return normalizeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return finerr.NotFoundf("series %d", seriesID)
	}
	return nil
}

func scanTargets(tx *models.Transaction) []any {
	return []any{
		&tx.TransactionID, &tx.UserID, &tx.CategoryID, &tx.Type, &tx.Amount, &tx.Description,
		&tx.TransactionDate, &tx.RecurrenceType, &tx.TotalInstallments, &tx.CurrentInstallment,
		&tx.IsCancelled, &tx.CancelledAt, &tx.SeriesID, &tx.CreatedAt,
	}
}

func scanTransactions(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	for rows.Next() {
		tx := &models.Transaction{}
		if err := rows.Scan(scanTargets(tx)...); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
