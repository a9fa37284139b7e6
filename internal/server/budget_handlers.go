package server

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
)

type budgetRequest struct {
	CategoryID int64           `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
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

	budgets, err := s.budgets.ListByMonth(r.Context(), userID, month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", budgets)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, finerr.BadRequestf("invalid request body"))
		return
	}
	if req.CategoryID <= 0 {
		writeError(w, finerr.BadRequestf("category_id is required"))
		return
	}
	if req.Amount.IsNegative() {
		writeError(w, finerr.BadRequestf("amount must not be negative"))
		return
	}
	if req.Month < 1 || req.Month > 12 {
		writeError(w, finerr.BadRequestf("month must be 1-12"))
		return
	}

	b := &models.CategoryBudget{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Month:      req.Month,
		Year:       req.Year,
	}
	if err := s.budgets.Create(r.Context(), b); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "created", b)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, finerr.BadRequestf("invalid request body"))
		return
	}
	if req.Amount.IsNegative() {
		writeError(w, finerr.BadRequestf("amount must not be negative"))
		return
	}

	b := &models.CategoryBudget{BudgetID: id, UserID: userID, Amount: req.Amount}
	if err := s.budgets.Update(r.Context(), b); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "updated", b)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.budgets.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "deleted", nil)
}
