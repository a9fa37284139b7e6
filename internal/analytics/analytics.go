// Package analytics derives read-only reporting views from a user's
// transactions for a (month, year) scope. Every operation is a pure read.
package analytics

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
)

// TransactionSource is the slice of the transaction repository the
// aggregator reads from.
type TransactionSource interface {
	GetByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.Transaction, error)
	GetTotalByType(ctx context.Context, userID int64, start, end time.Time, txType models.TransactionType) (decimal.Decimal, error)
	GetSummaryByCategory(ctx context.Context, userID int64, start, end time.Time, txType models.TransactionType) (map[int64]decimal.Decimal, error)
}

type GoalSource interface {
	GetByMonth(ctx context.Context, userID int64, month, year int) (*models.SavingsGoal, error)
}

type BudgetSource interface {
	ListByMonth(ctx context.Context, userID int64, month, year int) ([]*models.CategoryBudget, error)
}

type CategorySource interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.Category, error)
}

type Service struct {
	transactions TransactionSource
	goals        GoalSource
	budgets      BudgetSource
	categories   CategorySource
}

func New(transactions TransactionSource, goals GoalSource, budgets BudgetSource, categories CategorySource) *Service {
	return &Service{
		transactions: transactions,
		goals:        goals,
		budgets:      budgets,
		categories:   categories,
	}
}

// DefaultTopExpensesLimit applies when the caller passes limit <= 0.
const DefaultTopExpensesLimit = 10

type DailyCashFlowEntry struct {
	Day               int             `json:"day"`
	Date              string          `json:"date"`
	DailyBalance      decimal.Decimal `json:"daily_balance"`
	CumulativeBalance decimal.Decimal `json:"cumulative_balance"`
}

type TopExpense struct {
	TransactionID int64           `json:"transaction_id"`
	CategoryID    *int64          `json:"category_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
}

type SavingsRateReport struct {
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	Savings     decimal.Decimal `json:"savings"`
	SavingsRate decimal.Decimal `json:"savings_rate"`
	Goal        decimal.Decimal `json:"goal"`
}

type WeekdayBucket struct {
	Weekday int             `json:"weekday"` // 0=Sunday .. 6=Saturday
	Label   string          `json:"label"`
	Total   decimal.Decimal `json:"total"`
}

const (
	BudgetStatusGood    = "good"
	BudgetStatusWarning = "warning"
	BudgetStatusOver    = "over"
)

type BudgetComparison struct {
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Budget       decimal.Decimal `json:"budget"`
	Actual       decimal.Decimal `json:"actual"`
	Status       string          `json:"status"`
}

// DailyCashFlow computes, for each day of the month, the net balance of that
// day and the running total from day 1. Days without transactions carry the
// previous cumulative balance forward.
func (s *Service) DailyCashFlow(ctx context.Context, userID int64, month, year int) ([]DailyCashFlowEntry, error) {
	start, end, err := monthRange(month, year)
	if err != nil {
		return nil, err
	}

	txs, err := s.transactions.GetByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	days := daysInMonth(month, year)
	perDay := make([]decimal.Decimal, days+1)
	for _, tx := range txs {
		day := tx.TransactionDate.Day()
		if day < 1 || day > days {
			continue
		}
		if tx.Type == models.TransactionTypeIncome {
			perDay[day] = perDay[day].Add(tx.Amount)
		} else {
			perDay[day] = perDay[day].Sub(tx.Amount)
		}
	}

	entries := make([]DailyCashFlowEntry, 0, days)
	cumulative := decimal.Zero
	for day := 1; day <= days; day++ {
		cumulative = cumulative.Add(perDay[day])
		entries = append(entries, DailyCashFlowEntry{
			Day:               day,
			Date:              time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			DailyBalance:      perDay[day],
			CumulativeBalance: cumulative,
		})
	}
	return entries, nil
}

// TopExpenses returns the month's largest expenses, amount descending, ties
// broken by earlier transaction date.
func (s *Service) TopExpenses(ctx context.Context, userID int64, month, year, limit int) ([]TopExpense, error) {
	start, end, err := monthRange(month, year)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTopExpensesLimit
	}

	txs, err := s.transactions.GetByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	var expenses []*models.Transaction
	for _, tx := range txs {
		if tx.Type == models.TransactionTypeExpense {
			expenses = append(expenses, tx)
		}
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		if !expenses[i].Amount.Equal(expenses[j].Amount) {
			return expenses[i].Amount.GreaterThan(expenses[j].Amount)
		}
		return expenses[i].TransactionDate.Before(expenses[j].TransactionDate)
	})

	if len(expenses) > limit {
		expenses = expenses[:limit]
	}

	top := make([]TopExpense, 0, len(expenses))
	for _, tx := range expenses {
		top = append(top, TopExpense{
			TransactionID: tx.TransactionID,
			CategoryID:    tx.CategoryID,
			Description:   tx.Description,
			Amount:        tx.Amount,
			Date:          tx.TransactionDate.Format("2006-01-02"),
		})
	}
	return top, nil
}

// SavingsRate reports income, expense, savings and the savings/income ratio
// for the month. The rate is 0 when income is 0. Goal comes from the user's
// savings goal for the month, 0 when none is set.
func (s *Service) SavingsRate(ctx context.Context, userID int64, month, year int) (*SavingsRateReport, error) {
	start, end, err := monthRange(month, year)
	if err != nil {
		return nil, err
	}

	income, err := s.transactions.GetTotalByType(ctx, userID, start, end, models.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}
	expense, err := s.transactions.GetTotalByType(ctx, userID, start, end, models.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	savings := income.Sub(expense)
	rate := decimal.Zero
	if income.IsPositive() {
		rate = savings.Div(income).Round(4)
	}

	goal := decimal.Zero
	sg, err := s.goals.GetByMonth(ctx, userID, month, year)
	switch {
	case err == nil:
		goal = sg.TargetAmount
	case errors.Is(err, finerr.ErrNotFound):
		// no goal for this month
	default:
		return nil, err
	}

	return &SavingsRateReport{
		Income:      income,
		Expense:     expense,
		Savings:     savings,
		SavingsRate: rate,
		Goal:        goal,
	}, nil
}

var weekdayLabels = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ExpensesByWeekday buckets the month's expenses into seven weekday totals,
// 0=Sunday through 6=Saturday.
func (s *Service) ExpensesByWeekday(ctx context.Context, userID int64, month, year int) ([]WeekdayBucket, error) {
	start, end, err := monthRange(month, year)
	if err != nil {
		return nil, err
	}

	txs, err := s.transactions.GetByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	buckets := make([]WeekdayBucket, 7)
	for i := range buckets {
		buckets[i] = WeekdayBucket{Weekday: i, Label: weekdayLabels[i], Total: decimal.Zero}
	}
	for _, tx := range txs {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		wd := int(tx.TransactionDate.Weekday())
		buckets[wd].Total = buckets[wd].Total.Add(tx.Amount)
	}
	return buckets, nil
}

var (
	warningThreshold = decimal.NewFromFloat(0.8)
)

// BudgetVsActual compares each budgeted category's configured amount against
// actual expense spend. Categories without a budget row are skipped.
func (s *Service) BudgetVsActual(ctx context.Context, userID int64, month, year int) ([]BudgetComparison, error) {
	start, end, err := monthRange(month, year)
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgets.ListByMonth(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return []BudgetComparison{}, nil
	}

	actuals, err := s.transactions.GetSummaryByCategory(ctx, userID, start, end, models.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.CategoryID] = c.Name
	}

	comparisons := make([]BudgetComparison, 0, len(budgets))
	for _, b := range budgets {
		actual := decimal.Zero
		if a, ok := actuals[b.CategoryID]; ok {
			actual = a
		}
		comparisons = append(comparisons, BudgetComparison{
			CategoryID:   b.CategoryID,
			CategoryName: names[b.CategoryID],
			Budget:       b.Amount,
			Actual:       actual,
			Status:       budgetStatus(b.Amount, actual),
		})
	}
	sort.Slice(comparisons, func(i, j int) bool {
		return comparisons[i].CategoryID < comparisons[j].CategoryID
	})
	return comparisons, nil
}

func budgetStatus(budget, actual decimal.Decimal) string {
	switch {
	case actual.LessThanOrEqual(budget.Mul(warningThreshold)):
		return BudgetStatusGood
	case actual.LessThanOrEqual(budget):
		return BudgetStatusWarning
	default:
		return BudgetStatusOver
	}
}

func monthRange(month, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, finerr.BadRequestf("month %d out of range", month)
	}
	if year < 1970 || year > 9999 {
		return time.Time{}, time.Time{}, finerr.BadRequestf("year %d out of range", year)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end, nil
}

func daysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
