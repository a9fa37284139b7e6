package server

import (
	"context"
	"time"

	"github.com/ledgerly/ledgerly/internal/analytics"
	"github.com/ledgerly/ledgerly/internal/export"
	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
	"github.com/ledgerly/ledgerly/internal/notifier"
)

type mockUserStore struct {
	CreateFunc          func(ctx context.Context, user *models.User) error
	GetByIDFunc         func(ctx context.Context, userID int64) (*models.User, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordFunc  func(ctx context.Context, userID int64, passwordHash string) error
	UpdateAvatarURLFunc func(ctx context.Context, userID int64, avatarURL string) error
	DeleteFunc          func(ctx context.Context, userID int64) error
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	return m.CreateFunc(ctx, user)
}

func (m *mockUserStore) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	return m.GetByIDFunc(ctx, userID)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return m.UpdatePasswordFunc(ctx, userID, passwordHash)
}

func (m *mockUserStore) UpdateAvatarURL(ctx context.Context, userID int64, avatarURL string) error {
	return m.UpdateAvatarURLFunc(ctx, userID, avatarURL)
}

func (m *mockUserStore) Delete(ctx context.Context, userID int64) error {
	return m.DeleteFunc(ctx, userID)
}

type mockTransactionStore struct {
	CreateFunc      func(ctx context.Context, tx *models.Transaction) error
	GetByIDFunc     func(ctx context.Context, transactionID, userID int64) (*models.Transaction, error)
	GetByUserIDFunc func(ctx context.Context, userID int64, limit, offset int) ([]*models.Transaction, error)
	UpdateFunc      func(ctx context.Context, tx *models.Transaction) error
	DeleteFunc      func(ctx context.Context, transactionID, userID int64) error
}

func (m *mockTransactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	return m.CreateFunc(ctx, tx)
}

func (m *mockTransactionStore) GetByID(ctx context.Context, transactionID, userID int64) (*models.Transaction, error) {
	return m.GetByIDFunc(ctx, transactionID, userID)
}

func (m *mockTransactionStore) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*models.Transaction, error) {
	return m.GetByUserIDFunc(ctx, userID, limit, offset)
}

func (m *mockTransactionStore) Update(ctx context.Context, tx *models.Transaction) error {
	return m.UpdateFunc(ctx, tx)
}

func (m *mockTransactionStore) Delete(ctx context.Context, transactionID, userID int64) error {
	return m.DeleteFunc(ctx, transactionID, userID)
}

type mockAnalytics struct {
	DailyCashFlowFunc     func(ctx context.Context, userID int64, month, year int) ([]analytics.DailyCashFlowEntry, error)
	TopExpensesFunc       func(ctx context.Context, userID int64, month, year, limit int) ([]analytics.TopExpense, error)
	SavingsRateFunc       func(ctx context.Context, userID int64, month, year int) (*analytics.SavingsRateReport, error)
	ExpensesByWeekdayFunc func(ctx context.Context, userID int64, month, year int) ([]analytics.WeekdayBucket, error)
	BudgetVsActualFunc    func(ctx context.Context, userID int64, month, year int) ([]analytics.BudgetComparison, error)
}

func (m *mockAnalytics) DailyCashFlow(ctx context.Context, userID int64, month, year int) ([]analytics.DailyCashFlowEntry, error) {
	return m.DailyCashFlowFunc(ctx, userID, month, year)
}

func (m *mockAnalytics) TopExpenses(ctx context.Context, userID int64, month, year, limit int) ([]analytics.TopExpense, error) {
	return m.TopExpensesFunc(ctx, userID, month, year, limit)
}

func (m *mockAnalytics) SavingsRate(ctx context.Context, userID int64, month, year int) (*analytics.SavingsRateReport, error) {
	return m.SavingsRateFunc(ctx, userID, month, year)
}

func (m *mockAnalytics) ExpensesByWeekday(ctx context.Context, userID int64, month, year int) ([]analytics.WeekdayBucket, error) {
	return m.ExpensesByWeekdayFunc(ctx, userID, month, year)
}

func (m *mockAnalytics) BudgetVsActual(ctx context.Context, userID int64, month, year int) ([]analytics.BudgetComparison, error) {
	return m.BudgetVsActualFunc(ctx, userID, month, year)
}

type mockExporter struct {
	DataFunc    func(ctx context.Context, userID int64, month, year int, format export.Format) (*export.File, error)
	ReportsFunc func(ctx context.Context, userID int64, month, year int) (*export.File, error)
}

func (m *mockExporter) Data(ctx context.Context, userID int64, month, year int, format export.Format) (*export.File, error) {
	return m.DataFunc(ctx, userID, month, year, format)
}

func (m *mockExporter) Reports(ctx context.Context, userID int64, month, year int) (*export.File, error) {
	return m.ReportsFunc(ctx, userID, month, year)
}

type mockLedger struct {
	CancelFunc func(ctx context.Context, seriesID int64, effectiveDate time.Time) error
}

func (m *mockLedger) Cancel(ctx context.Context, seriesID int64, effectiveDate time.Time) error {
	return m.CancelFunc(ctx, seriesID, effectiveDate)
}

type mockNotificationStore struct {
	ListByUserFunc func(ctx context.Context, userID int64, limit, offset int) ([]*models.Notification, error)
	MarkReadFunc   func(ctx context.Context, notificationID, userID int64) error
}

func (m *mockNotificationStore) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Notification, error) {
	return m.ListByUserFunc(ctx, userID, limit, offset)
}

func (m *mockNotificationStore) MarkRead(ctx context.Context, notificationID, userID int64) error {
	return m.MarkReadFunc(ctx, notificationID, userID)
}

type mockNotifier struct {
	NotifyFunc func(ctx context.Context, userID int64, req notifier.Request) error
}

func (m *mockNotifier) Notify(ctx context.Context, userID int64, req notifier.Request) error {
	if m.NotifyFunc == nil {
		return nil
	}
	return m.NotifyFunc(ctx, userID, req)
}

type mockAvatarStore struct {
	UploadAvatarFunc func(ctx context.Context, userID int64, filename string, data []byte) (string, error)
}

func (m *mockAvatarStore) UploadAvatar(ctx context.Context, userID int64, filename string, data []byte) (string, error) {
	return m.UploadAvatarFunc(ctx, userID, filename, data)
}

// userStoreReturning is the common case: every lookup answers with the same
// user.
func userStoreReturning(u *models.User) *mockUserStore {
	return &mockUserStore{
		GetByIDFunc: func(_ context.Context, userID int64) (*models.User, error) {
			if u == nil || userID != u.UserID {
				return nil, finerr.ErrNotFound
			}
			return u, nil
		},
		GetByEmailFunc: func(_ context.Context, email string) (*models.User, error) {
			if u == nil || email != u.Email {
				return nil, finerr.ErrNotFound
			}
			return u, nil
		},
	}
}
