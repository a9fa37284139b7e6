package repository

import (
	"context"

	"github.com/ledgerly/ledgerly/internal/database"
	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
)

type BudgetRepository struct {
	db *database.DB
}

func NewBudgetRepository(db *database.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Create(ctx context.Context, b *models.CategoryBudget) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO category_budget (user_id, category_id, amount, month, year)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING budget_id, created_at`,
		b.UserID, b.CategoryID, b.Amount, b.Month, b.Year,
	).Scan(&b.BudgetID, &b.CreatedAt)
	return normalizeErr(err)
}

func (r *BudgetRepository) ListByMonth(ctx context.Context, userID int64, month, year int) ([]*models.CategoryBudget, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT budget_id, user_id, category_id, amount, month, year, created_at
		 FROM category_budget WHERE user_id = $1 AND month = $2 AND year = $3
		 ORDER BY category_id`,
		userID, month, year,
	)
	if err != nil {
		return nil, normalizeErr(err)
	}
	defer rows.Close()

	var budgets []*models.CategoryBudget
	for rows.Next() {
		b := &models.CategoryBudget{}
		if err := rows.Scan(&b.BudgetID, &b.UserID, &b.CategoryID, &b.Amount, &b.Month, &b.Year, &b.CreatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepository) Update(ctx context.Context, b *models.CategoryBudget) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE category_budget SET amount = $1
		 WHERE budget_id = $2 AND user_id = $3`,
		b.Amount, b.BudgetID, b.UserID,
	)
	if err != nil {
		return normalizeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return finerr.NotFoundf("budget %d", b.BudgetID)
	}
	return nil
}

func (r *BudgetRepository) Delete(ctx context.Context, budgetID, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM category_budget WHERE budget_id = $1 AND user_id = $2`,
		budgetID, userID,
	)
	if err != nil {
		return normalizeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return finerr.NotFoundf("budget %d", budgetID)
	}
	return nil
}
