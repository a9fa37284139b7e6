package server

import (
	"net/http"

	"github.com/ledgerly/ledgerly/internal/analytics"
	"github.com/ledgerly/ledgerly/internal/premium"
)

type analyticsSummary struct {
	SavingsRate *analytics.SavingsRateReport   `json:"savings_rate"`
	CashFlow    []analytics.DailyCashFlowEntry `json:"cash_flow"`
	TopExpenses []analytics.TopExpense         `json:"top_expenses"`
}

func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	month, year, err := monthYear(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rate, err := s.analytics.SavingsRate(r.Context(), userID, month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	cashFlow, err := s.analytics.DailyCashFlow(r.Context(), userID, month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	top, err := s.analytics.TopExpenses(r.Context(), userID, month, year, 5)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "ok", analyticsSummary{SavingsRate: rate, CashFlow: cashFlow, TopExpenses: top})
}

func (s *Server) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	month, year, err := monthYear(r)
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := s.analytics.DailyCashFlow(r.Context(), userID, month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", entries)
}

func (s *Server) handleTopExpenses(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	month, year, err := monthYear(r)
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := queryInt(r, "limit", "10")
	if err != nil {
		writeError(w, err)
		return
	}

	top, err := s.analytics.TopExpenses(r.Context(), userID, month, year, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", top)
}

func (s *Server) handleSavingsRate(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	month, year, err := monthYear(r)
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := s.analytics.SavingsRate(r.Context(), userID, month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", report)
}

func (s *Server) handleExpensesByWeekday(w http.ResponseWriter, r *http.Request) {
	user, err := s.requireFeature(r, premium.FeatureAdvancedAnalytics)
	if err != nil {
		writeError(w, err)
		return
	}
	month, year, err := monthYear(r)
	if err != nil {
		writeError(w, err)
		return
	}

	buckets, err := s.analytics.ExpensesByWeekday(r.Context(), user.UserID, month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", buckets)
}

func (s *Server) handleBudgetVsActual(w http.ResponseWriter, r *http.Request) {
	user, err := s.requireFeature(r, premium.FeatureAdvancedAnalytics)
	if err != nil {
		writeError(w, err)
		return
	}
	month, year, err := monthYear(r)
	if err != nil {
		writeError(w, err)
		return
	}

	comparisons, err := s.analytics.BudgetVsActual(r.Context(), user.UserID, month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", comparisons)
}
