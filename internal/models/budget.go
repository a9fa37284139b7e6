package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryBudget is the configured monthly spending limit for one category.
// Categories without a budget row are excluded from budget-vs-actual.
type CategoryBudget struct {
	BudgetID   int64           `json:"budget_id"`
	UserID     int64           `json:"user_id"`
	CategoryID int64           `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	CreatedAt  time.Time       `json:"created_at"`
}
