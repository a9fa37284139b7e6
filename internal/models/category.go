package models

import "time"

// Category labels transactions. Type is advisory: the service does not reject
// an income transaction filed under an expense category.
type Category struct {
	CategoryID int64           `json:"category_id"`
	UserID     int64           `json:"user_id"`
	Name       string          `json:"name"`
	Type       TransactionType `json:"type"`
	Color      string          `json:"color"`
	Icon       string          `json:"icon"`
	CreatedAt  time.Time       `json:"created_at"`
}
