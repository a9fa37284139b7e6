package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
)

type mockTransactionSource struct {
	GetByDateRangeFunc       func(ctx context.Context, userID int64, start, end time.Time) ([]*models.Transaction, error)
	GetTotalByTypeFunc       func(ctx context.Context, userID int64, start, end time.Time, txType models.TransactionType) (decimal.Decimal, error)
	GetSummaryByCategoryFunc func(ctx context.Context, userID int64, start, end time.Time, txType models.TransactionType) (map[int64]decimal.Decimal, error)
}

func (m *mockTransactionSource) GetByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.Transaction, error) {
	return m.GetByDateRangeFunc(ctx, userID, start, end)
}

func (m *mockTransactionSource) GetTotalByType(ctx context.Context, userID int64, start, end time.Time, txType models.TransactionType) (decimal.Decimal, error) {
	return m.GetTotalByTypeFunc(ctx, userID, start, end, txType)
}

func (m *mockTransactionSource) GetSummaryByCategory(ctx context.Context, userID int64, start, end time.Time, txType models.TransactionType) (map[int64]decimal.Decimal, error) {
	return m.GetSummaryByCategoryFunc(ctx, userID, start, end, txType)
}

type mockGoalSource struct {
	GetByMonthFunc func(ctx context.Context, userID int64, month, year int) (*models.SavingsGoal, error)
}

func (m *mockGoalSource) GetByMonth(ctx context.Context, userID int64, month, year int) (*models.SavingsGoal, error) {
	return m.GetByMonthFunc(ctx, userID, month, year)
}

type mockBudgetSource struct {
	ListByMonthFunc func(ctx context.Context, userID int64, month, year int) ([]*models.CategoryBudget, error)
}

func (m *mockBudgetSource) ListByMonth(ctx context.Context, userID int64, month, year int) ([]*models.CategoryBudget, error) {
	return m.ListByMonthFunc(ctx, userID, month, year)
}

type mockCategorySource struct {
	ListByUserFunc func(ctx context.Context, userID int64) ([]*models.Category, error)
}

func (m *mockCategorySource) ListByUser(ctx context.Context, userID int64) ([]*models.Category, error) {
	return m.ListByUserFunc(ctx, userID)
}

func tx(id int64, typ models.TransactionType, amount float64, y int, m time.Month, d int) *models.Transaction {
	return &models.Transaction{
		TransactionID:   id,
		Type:            typ,
		Amount:          decimal.NewFromFloat(amount),
		TransactionDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestDailyCashFlow_CarriesBalanceForward(t *testing.T) {
	txs := &mockTransactionSource{
		GetByDateRangeFunc: func(ctx context.Context, userID int64, start, end time.Time) ([]*models.Transaction, error) {
			assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), start)
			return []*models.Transaction{
				tx(1, models.TransactionTypeIncome, 1000, 2024, time.June, 1),
				tx(2, models.TransactionTypeExpense, 300, 2024, time.June, 15),
			}, nil
		},
	}
	svc := New(txs, nil, nil, nil)

	entries, err := svc.DailyCashFlow(context.Background(), 1, 6, 2024)
	require.NoError(t, err)
	require.Len(t, entries, 30)

	assert.True(t, entries[0].DailyBalance.Equal(dec(1000)))
	assert.True(t, entries[0].CumulativeBalance.Equal(dec(1000)))
	for day := 2; day <= 14; day++ {
		assert.True(t, entries[day-1].DailyBalance.IsZero(), "day %d", day)
		assert.True(t, entries[day-1].CumulativeBalance.Equal(dec(1000)), "day %d", day)
	}
	assert.True(t, entries[14].DailyBalance.Equal(dec(-300)))
	assert.True(t, entries[14].CumulativeBalance.Equal(dec(700)))
	for day := 16; day <= 30; day++ {
		assert.True(t, entries[day-1].CumulativeBalance.Equal(dec(700)), "day %d", day)
	}
}

func TestDailyCashFlow_InvalidMonth(t *testing.T) {
	svc := New(&mockTransactionSource{}, nil, nil, nil)
	_, err := svc.DailyCashFlow(context.Background(), 1, 13, 2024)
	assert.ErrorIs(t, err, finerr.ErrBadRequest)
}

func TestTopExpenses_EarlierDateBreaksTies(t *testing.T) {
	txs := &mockTransactionSource{
		GetByDateRangeFunc: func(ctx context.Context, userID int64, start, end time.Time) ([]*models.Transaction, error) {
			return []*models.Transaction{
				tx(1, models.TransactionTypeExpense, 500, 2024, time.January, 3),
				tx(2, models.TransactionTypeExpense, 500, 2024, time.January, 1),
				tx(3, models.TransactionTypeExpense, 300, 2024, time.January, 10),
				tx(4, models.TransactionTypeIncome, 9000, 2024, time.January, 2),
			}, nil
		},
	}
	svc := New(txs, nil, nil, nil)

	top, err := svc.TopExpenses(context.Background(), 1, 1, 2024, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "2024-01-01", top[0].Date)
	assert.Equal(t, "2024-01-03", top[1].Date)
	assert.True(t, top[0].Amount.Equal(dec(500)))
	assert.True(t, top[1].Amount.Equal(dec(500)))
}

func TestTopExpenses_DefaultLimit(t *testing.T) {
	var many []*models.Transaction
	for i := range 15 {
		many = append(many, tx(int64(i+1), models.TransactionTypeExpense, float64(100+i), 2024, time.January, i+1))
	}
	txs := &mockTransactionSource{
		GetByDateRangeFunc: func(ctx context.Context, userID int64, start, end time.Time) ([]*models.Transaction, error) {
			return many, nil
		},
	}
	svc := New(txs, nil, nil, nil)

	top, err := svc.TopExpenses(context.Background(), 1, 1, 2024, 0)
	require.NoError(t, err)
	assert.Len(t, top, DefaultTopExpensesLimit)
}

func TestSavingsRate_ZeroIncomeYieldsZeroRate(t *testing.T) {
	txs := &mockTransactionSource{
		GetTotalByTypeFunc: func(ctx context.Context, userID int64, start, end time.Time, txType models.TransactionType) (decimal.Decimal, error) {
			if txType == models.TransactionTypeIncome {
				return decimal.Zero, nil
			}
			return dec(450), nil
		},
	}
	goals := &mockGoalSource{
		GetByMonthFunc: func(ctx context.Context, userID int64, month, year int) (*models.SavingsGoal, error) {
			return nil, finerr.NotFoundf("no goal")
		},
	}
	svc := New(txs, goals, nil, nil)

	report, err := svc.SavingsRate(context.Background(), 1, 6, 2024)
	require.NoError(t, err)
	assert.True(t, report.SavingsRate.IsZero())
	assert.True(t, report.Savings.Equal(dec(-450)))
	assert.True(t, report.Goal.IsZero())
}

func TestSavingsRate_WithGoal(t *testing.T) {
	txs := &mockTransactionSource{
		GetTotalByTypeFunc: func(ctx context.Context, userID int64, start, end time.Time, txType models.TransactionType) (decimal.Decimal, error) {
			if txType == models.TransactionTypeIncome {
				return dec(2000), nil
			}
			return dec(1500), nil
		},
	}
	goals := &mockGoalSource{
		GetByMonthFunc: func(ctx context.Context, userID int64, month, year int) (*models.SavingsGoal, error) {
			return &models.SavingsGoal{TargetAmount: dec(600)}, nil
		},
	}
	svc := New(txs, goals, nil, nil)

	report, err := svc.SavingsRate(context.Background(), 1, 6, 2024)
	require.NoError(t, err)
	assert.True(t, report.Income.Equal(dec(2000)))
	assert.True(t, report.Expense.Equal(dec(1500)))
	assert.True(t, report.Savings.Equal(dec(500)))
	assert.True(t, report.SavingsRate.Equal(dec(0.25)))
	assert.True(t, report.Goal.Equal(dec(600)))
}

func TestExpensesByWeekday_BucketsSundayFirst(t *testing.T) {
	txs := &mockTransactionSource{
		GetByDateRangeFunc: func(ctx context.Context, userID int64, start, end time.Time) ([]*models.Transaction, error) {
			return []*models.Transaction{
				// 2024-06-02 is a Sunday, 2024-06-03 a Monday.
				tx(1, models.TransactionTypeExpense, 50, 2024, time.June, 2),
				tx(2, models.TransactionTypeExpense, 25, 2024, time.June, 9),
				tx(3, models.TransactionTypeExpense, 10, 2024, time.June, 3),
				tx(4, models.TransactionTypeIncome, 999, 2024, time.June, 3),
			}, nil
		},
	}
	svc := New(txs, nil, nil, nil)

	buckets, err := svc.ExpensesByWeekday(context.Background(), 1, 6, 2024)
	require.NoError(t, err)
	require.Len(t, buckets, 7)
	assert.Equal(t, "Sunday", buckets[0].Label)
	assert.True(t, buckets[0].Total.Equal(dec(75)))
	assert.True(t, buckets[1].Total.Equal(dec(10)))
	for i := 2; i < 7; i++ {
		assert.True(t, buckets[i].Total.IsZero(), "weekday %d", i)
	}
}

func TestBudgetVsActual_Statuses(t *testing.T) {
	budgets := &mockBudgetSource{
		ListByMonthFunc: func(ctx context.Context, userID int64, month, year int) ([]*models.CategoryBudget, error) {
			return []*models.CategoryBudget{
				{CategoryID: 1, Amount: dec(1000)},
				{CategoryID: 2, Amount: dec(1000)},
				{CategoryID: 3, Amount: dec(1000)},
				{CategoryID: 4, Amount: dec(200)},
			}, nil
		},
	}
	txs := &mockTransactionSource{
		GetSummaryByCategoryFunc: func(ctx context.Context, userID int64, start, end time.Time, txType models.TransactionType) (map[int64]decimal.Decimal, error) {
			return map[int64]decimal.Decimal{
				1: dec(800),  // exactly 80% -> good
				2: dec(950),  // within budget -> warning
				3: dec(1300), // over
			}, nil
		},
	}
	categories := &mockCategorySource{
		ListByUserFunc: func(ctx context.Context, userID int64) ([]*models.Category, error) {
			return []*models.Category{
				{CategoryID: 1, Name: "Groceries"},
				{CategoryID: 2, Name: "Rent"},
				{CategoryID: 3, Name: "Dining"},
				{CategoryID: 4, Name: "Books"},
			}, nil
		},
	}
	svc := New(txs, nil, budgets, categories)

	comparisons, err := svc.BudgetVsActual(context.Background(), 1, 6, 2024)
	require.NoError(t, err)
	require.Len(t, comparisons, 4)
	assert.Equal(t, BudgetStatusGood, comparisons[0].Status)
	assert.Equal(t, BudgetStatusWarning, comparisons[1].Status)
	assert.Equal(t, BudgetStatusOver, comparisons[2].Status)
	// No spend at all stays good.
	assert.Equal(t, BudgetStatusGood, comparisons[3].Status)
	assert.Equal(t, "Groceries", comparisons[0].CategoryName)
}

func TestBudgetVsActual_NoBudgetsConfigured(t *testing.T) {
	budgets := &mockBudgetSource{
		ListByMonthFunc: func(ctx context.Context, userID int64, month, year int) ([]*models.CategoryBudget, error) {
			return nil, nil
		},
	}
	svc := New(&mockTransactionSource{}, nil, budgets, &mockCategorySource{})

	comparisons, err := svc.BudgetVsActual(context.Background(), 1, 6, 2024)
	require.NoError(t, err)
	assert.Empty(t, comparisons)
}
