package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly/ledgerly/internal/analytics"
	"github.com/ledgerly/ledgerly/internal/auth"
	"github.com/ledgerly/ledgerly/internal/export"
	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
	"github.com/ledgerly/ledgerly/internal/premium"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Tokens == nil {
		cfg.Tokens = auth.NewTokenManager("test-secret", time.Hour)
	}
	if cfg.Gate == nil {
		cfg.Gate = premium.NewGateAt(func() time.Time { return testNow })
	}
	if cfg.Notifier == nil {
		cfg.Notifier = &mockNotifier{}
	}
	if cfg.Log == nil {
		cfg.Log = slog.New(slog.DiscardHandler)
	}
	return New(cfg)
}

func doRequest(t *testing.T, s *Server, method, target string, body any, userID int64) *httptest.ResponseRecorder {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, buf)
	if userID != 0 {
		token, err := s.tokens.Issue(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func premiumUser(id int64) *models.User {
	expires := testNow.Add(30 * 24 * time.Hour)
	return &models.User{
		UserID:           id,
		Name:             "Ada",
		Email:            "ada@example.com",
		IsPremium:        true,
		PlanType:         models.PlanMonthly,
		PremiumExpiresAt: &expires,
	}
}

func freeUser(id int64) *models.User {
	return &models.User{UserID: id, Name: "Bob", Email: "bob@example.com", PlanType: models.PlanFree}
}

func TestRegister(t *testing.T) {
	users := &mockUserStore{
		CreateFunc: func(_ context.Context, u *models.User) error {
			u.UserID = 7
			return nil
		},
	}
	s := newTestServer(t, Config{Users: users})

	rec := doRequest(t, s, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Ada",
		"email":    "Ada@Example.com",
		"password": "Sup3rSecret",
	}, 0)

	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	data := env.Data.(map[string]any)
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.Nil(t, user["password_hash"])
}

func TestRegisterWeakPassword(t *testing.T) {
	s := newTestServer(t, Config{Users: &mockUserStore{}})

	rec := doRequest(t, s, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "short",
	}, 0)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &mockUserStore{
		CreateFunc: func(_ context.Context, _ *models.User) error {
			return finerr.Conflictf("user_email_key")
		},
	}
	s := newTestServer(t, Config{Users: users})

	rec := doRequest(t, s, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "Sup3rSecret",
	}, 0)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email already registered", decodeEnvelope(t, rec).Message)
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("Sup3rSecret")
	require.NoError(t, err)
	u := premiumUser(7)
	u.PasswordHash = hash
	s := newTestServer(t, Config{Users: userStoreReturning(u)})

	t.Run("valid credentials", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "ada@example.com",
			"password": "Sup3rSecret",
		}, 0)

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec).Data.(map[string]any)
		assert.NotEmpty(t, data["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "ada@example.com",
			"password": "WrongPassw0rd",
		}, 0)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email does not leak existence", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "Sup3rSecret",
		}, 0)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, Config{Users: &mockUserStore{}})

	rec := doRequest(t, s, http.MethodGet, "/api/v1/users/me", nil, 0)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestServer(t, Config{Users: &mockUserStore{}, Transactions: &mockTransactionStore{}})

	two := 2
	zero := 0
	tests := []struct {
		name string
		body map[string]any
	}{
		{"unknown type", map[string]any{"type": "transfer", "amount": "10", "date": "2024-06-01"}},
		{"negative amount", map[string]any{"type": "expense", "amount": "-10", "date": "2024-06-01"}},
		{"bad date", map[string]any{"type": "expense", "amount": "10", "date": "June 1st"}},
		{"installments without recurrence", map[string]any{"type": "expense", "amount": "10", "date": "2024-06-01", "total_installments": two}},
		{"zero installments", map[string]any{"type": "expense", "amount": "10", "date": "2024-06-01", "recurrence_type": "monthly", "total_installments": zero}},
		{"bad recurrence type", map[string]any{"type": "expense", "amount": "10", "date": "2024-06-01", "recurrence_type": "fortnightly"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/api/v1/transactions", tt.body, 7)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateTransaction(t *testing.T) {
	var created *models.Transaction
	txs := &mockTransactionStore{
		CreateFunc: func(_ context.Context, tx *models.Transaction) error {
			tx.TransactionID = 42
			created = tx
			return nil
		},
	}
	s := newTestServer(t, Config{Users: &mockUserStore{}, Transactions: txs})

	rec := doRequest(t, s, http.MethodPost, "/api/v1/transactions", map[string]any{
		"type":            "expense",
		"amount":          "199.90",
		"description":     "gym membership",
		"date":            "2024-01-31",
		"recurrence_type": "monthly",
	}, 7)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	assert.Equal(t, int64(7), created.UserID)
	assert.Equal(t, models.RecurrenceMonthly, created.RecurrenceType)
	assert.Equal(t, 1, created.CurrentInstallment)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), created.TransactionDate)
}

func TestCancelSeries(t *testing.T) {
	anchor := &models.Transaction{TransactionID: 42, UserID: 7, RecurrenceType: models.RecurrenceMonthly}
	plain := &models.Transaction{TransactionID: 43, UserID: 7, RecurrenceType: models.RecurrenceNone}
	txs := &mockTransactionStore{
		GetByIDFunc: func(_ context.Context, id, userID int64) (*models.Transaction, error) {
			switch {
			case id == 42 && userID == 7:
				return anchor, nil
			case id == 43 && userID == 7:
				return plain, nil
			}
			return nil, finerr.ErrNotFound
		},
	}

	t.Run("cancels an anchor", func(t *testing.T) {
		var cancelled int64
		s := newTestServer(t, Config{
			Users:        &mockUserStore{},
			Transactions: txs,
			Ledger: &mockLedger{
				CancelFunc: func(_ context.Context, seriesID int64, _ time.Time) error {
					cancelled = seriesID
					return nil
				},
			},
		})

		rec := doRequest(t, s, http.MethodPost, "/api/v1/transactions/42/cancel", nil, 7)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(42), cancelled)
	})

	t.Run("rejects a non-recurring transaction", func(t *testing.T) {
		s := newTestServer(t, Config{Users: &mockUserStore{}, Transactions: txs, Ledger: &mockLedger{}})

		rec := doRequest(t, s, http.MethodPost, "/api/v1/transactions/43/cancel", nil, 7)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("hides other users' series", func(t *testing.T) {
		s := newTestServer(t, Config{Users: &mockUserStore{}, Transactions: txs, Ledger: &mockLedger{}})

		rec := doRequest(t, s, http.MethodPost, "/api/v1/transactions/42/cancel", nil, 8)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAdvancedAnalyticsGating(t *testing.T) {
	an := &mockAnalytics{
		ExpensesByWeekdayFunc: func(_ context.Context, _ int64, _, _ int) ([]analytics.WeekdayBucket, error) {
			return []analytics.WeekdayBucket{}, nil
		},
	}

	t.Run("free plan is denied", func(t *testing.T) {
		s := newTestServer(t, Config{Users: userStoreReturning(freeUser(7)), Analytics: an})

		rec := doRequest(t, s, http.MethodGet, "/api/v1/analytics/expenses-by-weekday", nil, 7)
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, decodeEnvelope(t, rec).Success)
	})

	t.Run("active premium plan passes", func(t *testing.T) {
		s := newTestServer(t, Config{Users: userStoreReturning(premiumUser(7)), Analytics: an})

		rec := doRequest(t, s, http.MethodGet, "/api/v1/analytics/expenses-by-weekday", nil, 7)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("expired premium plan is denied", func(t *testing.T) {
		u := premiumUser(7)
		past := testNow.Add(-time.Hour)
		u.PremiumExpiresAt = &past
		s := newTestServer(t, Config{Users: userStoreReturning(u), Analytics: an})

		rec := doRequest(t, s, http.MethodGet, "/api/v1/analytics/expenses-by-weekday", nil, 7)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestExportData(t *testing.T) {
	exp := &mockExporter{
		DataFunc: func(_ context.Context, _ int64, month, year int, format export.Format) (*export.File, error) {
			return &export.File{
				Name:        "transactions-2024-06.csv",
				ContentType: "text/csv",
				Content:     []byte("date,type,amount\n"),
			}, nil
		},
	}

	t.Run("premium user downloads a file", func(t *testing.T) {
		s := newTestServer(t, Config{Users: userStoreReturning(premiumUser(7)), Exporter: exp})

		rec := doRequest(t, s, http.MethodPost, "/api/v1/export/data", map[string]any{
			"month": 6, "year": 2024, "format": "csv",
		}, 7)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "transactions-2024-06.csv")
		assert.Equal(t, "date,type,amount\n", rec.Body.String())
	})

	t.Run("free user is denied", func(t *testing.T) {
		s := newTestServer(t, Config{Users: userStoreReturning(freeUser(7)), Exporter: exp})

		rec := doRequest(t, s, http.MethodPost, "/api/v1/export/data", map[string]any{
			"month": 6, "year": 2024, "format": "csv",
		}, 7)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAnalyticsSummary(t *testing.T) {
	an := &mockAnalytics{
		SavingsRateFunc: func(_ context.Context, _ int64, _, _ int) (*analytics.SavingsRateReport, error) {
			return &analytics.SavingsRateReport{}, nil
		},
		DailyCashFlowFunc: func(_ context.Context, _ int64, _, _ int) ([]analytics.DailyCashFlowEntry, error) {
			return []analytics.DailyCashFlowEntry{}, nil
		},
		TopExpensesFunc: func(_ context.Context, _ int64, _, _, limit int) ([]analytics.TopExpense, error) {
			assert.Equal(t, 5, limit)
			return []analytics.TopExpense{}, nil
		},
	}
	s := newTestServer(t, Config{Users: &mockUserStore{}, Analytics: an})

	rec := doRequest(t, s, http.MethodGet, "/api/v1/analytics?month=6&year=2024", nil, 7)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Contains(t, env.Data, "savings_rate")
}

func TestAnalyticsRejectsBadMonth(t *testing.T) {
	s := newTestServer(t, Config{Users: &mockUserStore{}, Analytics: &mockAnalytics{}})

	rec := doRequest(t, s, http.MethodGet, "/api/v1/analytics/cash-flow?month=13", nil, 7)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAccount(t *testing.T) {
	var deleted int64
	users := &mockUserStore{
		DeleteFunc: func(_ context.Context, userID int64) error {
			deleted = userID
			return nil
		},
	}
	s := newTestServer(t, Config{Users: users})

	rec := doRequest(t, s, http.MethodDelete, "/api/v1/users/me", nil, 7)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
	assert.Equal(t, int64(7), deleted)
}

func TestMarkNotificationRead(t *testing.T) {
	var markedID, markedUser int64
	ns := &mockNotificationStore{
		MarkReadFunc: func(_ context.Context, notificationID, userID int64) error {
			markedID, markedUser = notificationID, userID
			return nil
		},
	}
	s := newTestServer(t, Config{Users: &mockUserStore{}, Notifications: ns})

	rec := doRequest(t, s, http.MethodPut, "/api/v1/notifications/9/read", nil, 7)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), markedID)
	assert.Equal(t, int64(7), markedUser)
}
