package server

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
)

type goalRequest struct {
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	Description   string          `json:"description"`
}

func (req *goalRequest) validate() error {
	if req.TargetAmount.IsNegative() || req.CurrentAmount.IsNegative() {
		return finerr.BadRequestf("amounts must not be negative")
	}
	if req.Month < 1 || req.Month > 12 {
		return finerr.BadRequestf("month must be 1-12")
	}
	if req.Year < 1970 || req.Year > 9999 {
		return finerr.BadRequestf("year out of range")
	}
	return nil
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	goals, err := s.goals.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, finerr.BadRequestf("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	g := &models.SavingsGoal{
		UserID:        userID,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Month:         req.Month,
		Year:          req.Year,
		Description:   req.Description,
	}
	if err := s.goals.Create(r.Context(), g); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "created", g)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
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
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, finerr.BadRequestf("invalid request body"))
		return
	}
	if req.TargetAmount.IsNegative() || req.CurrentAmount.IsNegative() {
		writeError(w, finerr.BadRequestf("amounts must not be negative"))
		return
	}

	g := &models.SavingsGoal{
		GoalID:        id,
		UserID:        userID,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Description:   req.Description,
	}
	if err := s.goals.Update(r.Context(), g); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "updated", g)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
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
	if err := s.goals.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "deleted", nil)
}
