// Package ledger maintains per-series installment progress: it materializes
// due occurrences of recurring transactions and terminates finite or
// cancelled series.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
	"github.com/ledgerly/ledgerly/internal/recurrence"
)

// Store is the persistence the ledger depends on. MaterializeNext must apply
// the new instance row and the anchor's counter update in one transaction,
// and return finerr.ErrConflict when an instance already exists for the date.
type Store interface {
	GetAnchor(ctx context.Context, seriesID int64) (*models.Transaction, error)
	ListActiveSeries(ctx context.Context) ([]*models.Transaction, error)
	MaterializeNext(ctx context.Context, anchor *models.Transaction, date time.Time, installment int) error
	CancelSeries(ctx context.Context, seriesID int64, at time.Time) error
}

type Outcome string

const (
	// OutcomeAdvanced means a new instance was persisted.
	OutcomeAdvanced Outcome = "advanced"
	// OutcomeAlreadyApplied means the occurrence for that date already
	// existed; a concurrent or earlier run won.
	OutcomeAlreadyApplied Outcome = "already-applied"
	// OutcomeEnded means the series produces no further occurrences.
	OutcomeEnded Outcome = "ended"
)

type AdvanceResult struct {
	Outcome     Outcome
	Date        time.Time
	Installment int
	EndReason   recurrence.EndReason
}

type Ledger struct {
	store Store
	log   *slog.Logger
}

func New(store Store, log *slog.Logger) *Ledger {
	return &Ledger{store: store, log: log}
}

// Advance materializes the next occurrence of one series. Exhaustion
// auto-terminates the series; an already-cancelled series is left untouched.
func (l *Ledger) Advance(ctx context.Context, seriesID int64, asOf time.Time) (AdvanceResult, error) {
	anchor, err := l.store.GetAnchor(ctx, seriesID)
	if err != nil {
		return AdvanceResult{}, err
	}
	return l.advanceAnchor(ctx, anchor, asOf)
}

func (l *Ledger) advanceAnchor(ctx context.Context, anchor *models.Transaction, asOf time.Time) (AdvanceResult, error) {
	res, err := recurrence.Evaluate(seriesOf(anchor), asOf)
	if err != nil {
		return AdvanceResult{}, err
	}

	if res.Ended() {
		if res.EndReason == recurrence.ReasonExhausted && !anchor.IsCancelled {
			if err := l.store.CancelSeries(ctx, anchor.TransactionID, asOf); err != nil {
				return AdvanceResult{}, fmt.Errorf("terminating exhausted series %d: %w", anchor.TransactionID, err)
			}
		}
		return AdvanceResult{Outcome: OutcomeEnded, EndReason: res.EndReason}, nil
	}

	err = l.store.MaterializeNext(ctx, anchor, res.Next.Date, res.Next.Installment)
	if errors.Is(err, finerr.ErrConflict) {
		return AdvanceResult{Outcome: OutcomeAlreadyApplied, Date: res.Next.Date, Installment: res.Next.Installment}, nil
	}
	if err != nil {
		return AdvanceResult{}, fmt.Errorf("materializing series %d installment %d: %w",
			anchor.TransactionID, res.Next.Installment, err)
	}

	return AdvanceResult{Outcome: OutcomeAdvanced, Date: res.Next.Date, Installment: res.Next.Installment}, nil
}

// Cancel marks a series cancelled as of effectiveDate. Subsequent Advance
// calls return SeriesEnded{cancelled} and never materialize instances.
func (l *Ledger) Cancel(ctx context.Context, seriesID int64, effectiveDate time.Time) error {
	anchor, err := l.store.GetAnchor(ctx, seriesID)
	if err != nil {
		return err
	}
	if anchor.IsCancelled {
		return nil
	}
	return l.store.CancelSeries(ctx, seriesID, effectiveDate)
}

// Safety valve for the catch-up loop; even a daily series that missed a full
// year stays well under it.
const maxCatchUpSteps = 1000

// AdvanceDueSeries advances every active series whose next occurrence falls
// on or before asOf, catching up multiple missed periods per series. One
// series' failure is logged and does not abort the batch. The whole operation
// is idempotent for a given asOf: repeating it materializes nothing new.
func (l *Ledger) AdvanceDueSeries(ctx context.Context, asOf time.Time) (int, error) {
	anchors, err := l.store.ListActiveSeries(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing active series: %w", err)
	}

	advanced := 0
	for _, anchor := range anchors {
		n, err := l.catchUp(ctx, anchor, asOf)
		advanced += n
		if err != nil {
			l.log.Error("failed to advance series",
				"series_id", anchor.TransactionID, "user_id", anchor.UserID, "error", err)
			continue
		}
	}
	return advanced, nil
}

func (l *Ledger) catchUp(ctx context.Context, anchor *models.Transaction, asOf time.Time) (int, error) {
	advanced := 0
	for range maxCatchUpSteps {
		res, err := recurrence.Evaluate(seriesOf(anchor), asOf)
		if err != nil {
			return advanced, err
		}
		if res.Ended() {
			if res.EndReason == recurrence.ReasonExhausted && !anchor.IsCancelled {
				if err := l.store.CancelSeries(ctx, anchor.TransactionID, asOf); err != nil {
					return advanced, err
				}
				l.log.Info("series exhausted", "series_id", anchor.TransactionID,
					"installments", anchor.CurrentInstallment)
			}
			return advanced, nil
		}
		if res.Next.Date.After(asOf) {
			return advanced, nil
		}

		err = l.store.MaterializeNext(ctx, anchor, res.Next.Date, res.Next.Installment)
		if errors.Is(err, finerr.ErrConflict) {
			// Another run already produced this occurrence; leave the
			// series to it.
			return advanced, nil
		}
		if err != nil {
			return advanced, err
		}
		anchor.CurrentInstallment = res.Next.Installment
		advanced++
	}
	return advanced, fmt.Errorf("series %d exceeded %d catch-up steps", anchor.TransactionID, maxCatchUpSteps)
}

func seriesOf(anchor *models.Transaction) recurrence.Series {
	return recurrence.Series{
		Type:               anchor.RecurrenceType,
		AnchorDate:         anchor.TransactionDate,
		TotalInstallments:  anchor.TotalInstallments,
		CurrentInstallment: anchor.CurrentInstallment,
		IsCancelled:        anchor.IsCancelled,
		CancelledAt:        anchor.CancelledAt,
	}
}
