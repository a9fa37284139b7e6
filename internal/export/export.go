// Package export renders a user's data and monthly reports into downloadable
// files. Both entry points are premium-gated at the HTTP layer.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerly/ledgerly/internal/analytics"
	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// File is a rendered export ready to stream to the client.
type File struct {
	ID          uuid.UUID
	Name        string
	ContentType string
	Content     []byte
}

type TransactionSource interface {
	GetByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.Transaction, error)
}

type Service struct {
	transactions TransactionSource
	analytics    *analytics.Service
}

func New(transactions TransactionSource, analytics *analytics.Service) *Service {
	return &Service{transactions: transactions, analytics: analytics}
}

// Data exports the raw transactions of one month as CSV or JSON. All input
// is validated before anything is read from the store.
func (s *Service) Data(ctx context.Context, userID int64, month, year int, format Format) (*File, error) {
	if format != FormatCSV && format != FormatJSON {
		return nil, finerr.BadRequestf("unsupported export format %q", format)
	}
	start, end, err := monthRange(month, year)
	if err != nil {
		return nil, err
	}

	txs, err := s.transactions.GetByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	if format == FormatCSV {
		content, err := renderCSV(txs)
		if err != nil {
			return nil, err
		}
		return &File{
			ID:          id,
			Name:        fmt.Sprintf("transactions-%04d-%02d-%s.csv", year, month, id),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	}

	content, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return nil, err
	}
	return &File{
		ID:          id,
		Name:        fmt.Sprintf("transactions-%04d-%02d-%s.json", year, month, id),
		ContentType: "application/json",
		Content:     content,
	}, nil
}

// Report is the full monthly analytics bundle rendered as JSON.
type Report struct {
	Month            int                            `json:"month"`
	Year             int                            `json:"year"`
	GeneratedAt      time.Time                      `json:"generated_at"`
	SavingsRate      *analytics.SavingsRateReport   `json:"savings_rate"`
	DailyCashFlow    []analytics.DailyCashFlowEntry `json:"daily_cash_flow"`
	TopExpenses      []analytics.TopExpense         `json:"top_expenses"`
	ExpensesByDay    []analytics.WeekdayBucket      `json:"expenses_by_weekday"`
	BudgetComparison []analytics.BudgetComparison   `json:"budget_vs_actual"`
}

// Reports renders the month's analytics into one JSON report file.
func (s *Service) Reports(ctx context.Context, userID int64, month, year int) (*File, error) {
	savings, err := s.analytics.SavingsRate(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}
	cashFlow, err := s.analytics.DailyCashFlow(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}
	top, err := s.analytics.TopExpenses(ctx, userID, month, year, 0)
	if err != nil {
		return nil, err
	}
	weekdays, err := s.analytics.ExpensesByWeekday(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}
	budget, err := s.analytics.BudgetVsActual(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}

	report := Report{
		Month:            month,
		Year:             year,
		GeneratedAt:      time.Now().UTC(),
		SavingsRate:      savings,
		DailyCashFlow:    cashFlow,
		TopExpenses:      top,
		ExpensesByDay:    weekdays,
		BudgetComparison: budget,
	}
	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	return &File{
		ID:          id,
		Name:        fmt.Sprintf("report-%04d-%02d-%s.json", year, month, id),
		ContentType: "application/json",
		Content:     content,
	}, nil
}

func renderCSV(txs []*models.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"transaction_id", "date", "type", "amount", "description", "category_id", "recurrence_type", "installment"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, tx := range txs {
		categoryID := ""
		if tx.CategoryID != nil {
			categoryID = fmt.Sprintf("%d", *tx.CategoryID)
		}
		record := []string{
			fmt.Sprintf("%d", tx.TransactionID),
			tx.TransactionDate.Format("2006-01-02"),
			string(tx.Type),
			tx.Amount.StringFixed(2),
			tx.Description,
			categoryID,
			string(tx.RecurrenceType),
			fmt.Sprintf("%d", tx.CurrentInstallment),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func monthRange(month, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, finerr.BadRequestf("month %d out of range", month)
	}
	if year < 1970 || year > 9999 {
		return time.Time{}, time.Time{}, finerr.BadRequestf("year %d out of range", year)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0).Add(-time.Second), nil
}
