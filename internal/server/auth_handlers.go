package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ledgerly/ledgerly/internal/auth"
	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
	"github.com/ledgerly/ledgerly/internal/notifier"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, finerr.BadRequestf("invalid request body"))
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" {
		writeError(w, finerr.BadRequestf("name and email are required"))
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		writeError(w, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	user := &models.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := s.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, finerr.ErrConflict) {
			writeError(w, finerr.Conflictf("email already registered"))
			return
		}
		writeError(w, err)
		return
	}

	token, err := s.tokens.Issue(user.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	s.log.Info("user registered", "user_id", user.UserID)
	writeJSON(w, http.StatusCreated, "registered", authResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, finerr.BadRequestf("invalid request body"))
		return
	}

	user, err := s.users.GetByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if errors.Is(err, finerr.ErrNotFound) {
			writeError(w, finerr.ErrUnauthorized)
			return
		}
		writeError(w, err)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, err)
		return
	}

	token, err := s.tokens.Issue(user.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "logged in", authResponse{Token: token, User: user})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, finerr.BadRequestf("invalid request body"))
		return
	}

	user, err := s.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		writeError(w, err)
		return
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.users.UpdatePassword(r.Context(), userID, hash); err != nil {
		writeError(w, err)
		return
	}

	// Security event; delivery failures must not fail the password change.
	if err := s.notifier.Notify(r.Context(), userID, notifier.Request{
		Title:    "Password changed",
		Body:     "Your account password was changed. If this wasn't you, contact support immediately.",
		Severity: models.SeverityWarning,
		Category: "security",
	}); err != nil {
		s.log.Error("failed to emit password-change notification", "user_id", userID, "error", err)
	}

	writeJSON(w, http.StatusOK, "password changed", nil)
}
