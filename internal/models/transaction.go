package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// Transaction is one financial movement. Amount is always non-negative; the
// direction is carried by Type. A recurring series is represented by an anchor
// row holding the recurrence configuration plus one generated instance row per
// materialized occurrence, linked back through SeriesID.
type Transaction struct {
	TransactionID      int64           `json:"transaction_id"`
	UserID             int64           `json:"user_id"`
	CategoryID         *int64          `json:"category_id"`
	Type               TransactionType `json:"type"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	TransactionDate    time.Time       `json:"transaction_date"`
	RecurrenceType     RecurrenceType  `json:"recurrence_type"`
	TotalInstallments  *int            `json:"total_installments"`
	CurrentInstallment int             `json:"current_installment"`
	IsCancelled        bool            `json:"is_cancelled"`
	CancelledAt        *time.Time      `json:"cancelled_at"`
	SeriesID           *int64          `json:"series_id"`
	CreatedAt          time.Time       `json:"created_at"`
}

// IsSeriesAnchor reports whether this row is the anchor of a recurring series.
func (t *Transaction) IsSeriesAnchor() bool {
	return t.RecurrenceType != "" && t.RecurrenceType != RecurrenceNone && t.SeriesID == nil
}

// IsGeneratedInstance reports whether this row was materialized from a series.
func (t *Transaction) IsGeneratedInstance() bool {
	return t.SeriesID != nil
}
