package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ledgerly/ledgerly/internal/finerr"
)

// Every JSON endpoint answers with the same envelope.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: status < 400, Message: message, Data: data}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, finerr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, finerr.ErrConflict):
		writeJSON(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, finerr.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, "missing or invalid credentials", nil)
	case errors.Is(err, finerr.ErrForbidden):
		writeJSON(w, http.StatusForbidden, "this feature requires an active premium plan", nil)
	case errors.Is(err, finerr.ErrBadRequest), errors.Is(err, finerr.ErrInvalidRecurrence):
		writeJSON(w, http.StatusBadRequest, err.Error(), nil)
	default:
		slog.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, "internal server error", nil)
	}
}
