package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal is a per-month saving target. At most one goal exists per
// (user, month, year); the unique constraint lives in the schema.
type SavingsGoal struct {
	GoalID        int64           `json:"goal_id"`
	UserID        int64           `json:"user_id"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}
