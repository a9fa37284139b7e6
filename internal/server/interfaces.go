package server

import (
	"context"
	"time"

	"github.com/ledgerly/ledgerly/internal/analytics"
	"github.com/ledgerly/ledgerly/internal/export"
	"github.com/ledgerly/ledgerly/internal/models"
)

// The handler-facing slices of the repositories and services. Tests swap in
// func-field mocks; production wires the pgx repositories.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	UpdateAvatarURL(ctx context.Context, userID int64, avatarURL string) error
	Delete(ctx context.Context, userID int64) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, transactionID, userID int64) (*models.Transaction, error)
	GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, transactionID, userID int64) error
}

type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, categoryID, userID int64) (*models.Category, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, categoryID, userID int64) error
}

type GoalStore interface {
	Create(ctx context.Context, g *models.SavingsGoal) error
	GetByMonth(ctx context.Context, userID int64, month, year int) (*models.SavingsGoal, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.SavingsGoal, error)
	Update(ctx context.Context, g *models.SavingsGoal) error
	Delete(ctx context.Context, goalID, userID int64) error
}

type BudgetStore interface {
	Create(ctx context.Context, b *models.CategoryBudget) error
	ListByMonth(ctx context.Context, userID int64, month, year int) ([]*models.CategoryBudget, error)
	Update(ctx context.Context, b *models.CategoryBudget) error
	Delete(ctx context.Context, budgetID, userID int64) error
}

type NotificationStore interface {
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID int64) error
}

type Analytics interface {
	DailyCashFlow(ctx context.Context, userID int64, month, year int) ([]analytics.DailyCashFlowEntry, error)
	TopExpenses(ctx context.Context, userID int64, month, year, limit int) ([]analytics.TopExpense, error)
	SavingsRate(ctx context.Context, userID int64, month, year int) (*analytics.SavingsRateReport, error)
	ExpensesByWeekday(ctx context.Context, userID int64, month, year int) ([]analytics.WeekdayBucket, error)
	BudgetVsActual(ctx context.Context, userID int64, month, year int) ([]analytics.BudgetComparison, error)
}

type Exporter interface {
	Data(ctx context.Context, userID int64, month, year int, format export.Format) (*export.File, error)
	Reports(ctx context.Context, userID int64, month, year int) (*export.File, error)
}

type SeriesLedger interface {
	Cancel(ctx context.Context, seriesID int64, effectiveDate time.Time) error
}

type AvatarStore interface {
	UploadAvatar(ctx context.Context, userID int64, filename string, data []byte) (string, error)
}
