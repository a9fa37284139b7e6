// Package server is the thin HTTP surface over the finance core: chi
// routing, JWT auth, envelope responses, premium gating.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerly/ledgerly/internal/auth"
	"github.com/ledgerly/ledgerly/internal/notifier"
	"github.com/ledgerly/ledgerly/internal/premium"
)

type Server struct {
	users         UserStore
	transactions  TransactionStore
	categories    CategoryStore
	goals         GoalStore
	budgets       BudgetStore
	notifications NotificationStore
	analytics     Analytics
	exporter      Exporter
	ledger        SeriesLedger
	avatars       AvatarStore
	notifier      notifier.Notifier
	gate          *premium.Gate
	tokens        *auth.TokenManager
	log           *slog.Logger
}

type Config struct {
	Users         UserStore
	Transactions  TransactionStore
	Categories    CategoryStore
	Goals         GoalStore
	Budgets       BudgetStore
	Notifications NotificationStore
	Analytics     Analytics
	Exporter      Exporter
	Ledger        SeriesLedger
	Avatars       AvatarStore
	Notifier      notifier.Notifier
	Gate          *premium.Gate
	Tokens        *auth.TokenManager
	Log           *slog.Logger
}

func New(cfg Config) *Server {
	return &Server{
		users:         cfg.Users,
		transactions:  cfg.Transactions,
		categories:    cfg.Categories,
		goals:         cfg.Goals,
		budgets:       cfg.Budgets,
		notifications: cfg.Notifications,
		analytics:     cfg.Analytics,
		exporter:      cfg.Exporter,
		ledger:        cfg.Ledger,
		avatars:       cfg.Avatars,
		notifier:      cfg.Notifier,
		gate:          cfg.Gate,
		tokens:        cfg.Tokens,
		log:           cfg.Log,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.tokens))

			r.Put("/auth/password", s.handleChangePassword)

			r.Get("/users/me", s.handleMe)
			r.Delete("/users/me", s.handleDeleteAccount)
			r.Put("/users/me/avatar", s.handleAvatarUpload)

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", s.handleListTransactions)
				r.Post("/", s.handleCreateTransaction)
				r.Get("/{id}", s.handleGetTransaction)
				r.Put("/{id}", s.handleUpdateTransaction)
				r.Delete("/{id}", s.handleDeleteTransaction)
				r.Post("/{id}/cancel", s.handleCancelSeries)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", s.handleListCategories)
				r.Post("/", s.handleCreateCategory)
				r.Get("/{id}", s.handleGetCategory)
				r.Put("/{id}", s.handleUpdateCategory)
				r.Delete("/{id}", s.handleDeleteCategory)
			})

			r.Route("/goals", func(r chi.Router) {
				r.Get("/", s.handleListGoals)
				r.Post("/", s.handleCreateGoal)
				r.Put("/{id}", s.handleUpdateGoal)
				r.Delete("/{id}", s.handleDeleteGoal)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Get("/", s.handleListBudgets)
				r.Post("/", s.handleCreateBudget)
				r.Put("/{id}", s.handleUpdateBudget)
				r.Delete("/{id}", s.handleDeleteBudget)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/", s.handleAnalyticsSummary)
				r.Get("/cash-flow", s.handleCashFlow)
				r.Get("/top-expenses", s.handleTopExpenses)
				r.Get("/savings-rate", s.handleSavingsRate)
				r.Get("/expenses-by-weekday", s.handleExpensesByWeekday)
				r.Get("/budget-vs-actual", s.handleBudgetVsActual)
			})

			r.Post("/export/reports", s.handleExportReports)
			r.Post("/export/data", s.handleExportData)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.handleListNotifications)
				r.Put("/{id}/read", s.handleMarkNotificationRead)
			})
		})
	})

	return r
}
