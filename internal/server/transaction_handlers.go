package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
)

type transactionRequest struct {
	Type              models.TransactionType `json:"type"`
	Amount            decimal.Decimal        `json:"amount"`
	Description       string                 `json:"description"`
	Date              string                 `json:"date"`
	CategoryID        *int64                 `json:"category_id"`
	RecurrenceType    models.RecurrenceType  `json:"recurrence_type"`
	TotalInstallments *int                   `json:"total_installments"`
}

func (req *transactionRequest) validate() (time.Time, error) {
	switch req.Type {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
	default:
		return time.Time{}, finerr.BadRequestf("type must be income or expense")
	}
	if req.Amount.IsNegative() {
		return time.Time{}, finerr.BadRequestf("amount must not be negative")
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return time.Time{}, finerr.BadRequestf("date must be YYYY-MM-DD")
	}

	switch req.RecurrenceType {
	case "", models.RecurrenceNone:
		if req.TotalInstallments != nil {
			return time.Time{}, finerr.BadRequestf("total_installments requires a recurrence type")
		}
	case models.RecurrenceDaily, models.RecurrenceWeekly, models.RecurrenceMonthly, models.RecurrenceYearly:
		if req.TotalInstallments != nil && *req.TotalInstallments < 1 {
			return time.Time{}, finerr.BadRequestf("total_installments must be at least 1")
		}
	default:
		return time.Time{}, finerr.BadRequestf("invalid recurrence type %q", req.RecurrenceType)
	}
	return date, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := queryInt(r, "limit", "50")
	if err != nil {
		writeError(w, err)
		return
	}
	offset, err := queryInt(r, "offset", "0")
	if err != nil {
		writeError(w, err)
		return
	}

	txs, err := s.transactions.GetByUserID(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, finerr.BadRequestf("invalid request body"))
		return
	}
	date, err := req.validate()
	if err != nil {
		writeError(w, err)
		return
	}

	recurrence := req.RecurrenceType
	if recurrence == "" {
		recurrence = models.RecurrenceNone
	}
	tx := &models.Transaction{
		UserID:             userID,
		CategoryID:         req.CategoryID,
		Type:               req.Type,
		Amount:             req.Amount,
		Description:        req.Description,
		TransactionDate:    date,
		RecurrenceType:     recurrence,
		TotalInstallments:  req.TotalInstallments,
		CurrentInstallment: 1,
	}
	if err := s.transactions.Create(r.Context(), tx); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, "created", tx)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
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

	tx, err := s.transactions.GetByID(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok", tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
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

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, finerr.BadRequestf("invalid request body"))
		return
	}
	date, err := req.validate()
	if err != nil {
		writeError(w, err)
		return
	}

	tx, err := s.transactions.GetByID(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	tx.CategoryID = req.CategoryID
	tx.Type = req.Type
	tx.Amount = req.Amount
	tx.Description = req.Description
	tx.TransactionDate = date
	if err := s.transactions.Update(r.Context(), tx); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "updated", tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
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

	if err := s.transactions.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "deleted", nil)
}

// handleCancelSeries stops a recurring series; no instances are generated on
// or after the cancellation date.
func (s *Server) handleCancelSeries(w http.ResponseWriter, r *http.Request) {
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

	// Ownership check before touching the series.
	tx, err := s.transactions.GetByID(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !tx.IsSeriesAnchor() {
		writeError(w, finerr.BadRequestf("transaction %d is not a recurring series", id))
		return
	}

	if err := s.ledger.Cancel(r.Context(), id, time.Now().UTC()); err != nil {
		writeError(w, err)
		return
	}
	s.log.Info("series cancelled", "series_id", id, "user_id", userID)
	writeJSON(w, http.StatusOK, "series cancelled", nil)
}
