package server

import (
	"encoding/json"
	"net/http"

	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
)

type categoryRequest struct {
	Name  string                 `json:"name"`
	Type  models.TransactionType `json:"type"`
	Color string                 `json:"color"`
	Icon  string                 `json:"icon"`
}

func (req *categoryRequest) validate() error {
	if req.Name == "" {
		return finerr.BadRequestf("name is required")
	}
	switch req.Type {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		return nil
	default:
		return finerr.BadRequestf("type must be income or expense")
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	categories, err := s.categories.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, finerr.BadRequestf("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	c := &models.Category{UserID: userID, Name: req.Name, Type: req.Type, Color: req.Color, Icon: req.Icon}
	if err := s.categories.Create(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "created", c)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
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
	c, err := s.categories.GetByID(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", c)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
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
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, finerr.BadRequestf("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	c := &models.Category{CategoryID: id, UserID: userID, Name: req.Name, Type: req.Type, Color: req.Color, Icon: req.Icon}
	if err := s.categories.Update(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "updated", c)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
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
	if err := s.categories.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "deleted", nil)
}
