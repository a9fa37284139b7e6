// Package scheduler is the time-based trigger for recurring-transaction
// advancement. The mechanism is swappable (real cron, container timer); the
// core entry point it drives is plain and idempotent.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Advancer is the ledger entry point the scheduler drives.
type Advancer interface {
	AdvanceDueSeries(ctx context.Context, asOf time.Time) (int, error)
}

type Scheduler struct {
	ledger   Advancer
	interval time.Duration
	notifyCh chan struct{}
	log      *slog.Logger
}

func New(ledger Advancer, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		ledger:   ledger,
		interval: interval,
		notifyCh: make(chan struct{}, 1),
		log:      log,
	}
}

// Notify triggers an immediate run. Non-blocking if a run is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
		// A run is already pending, skip
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("scheduler started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Wait a bit so migrations can complete before the first run
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
	}

	s.run(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.run(ctx)
		case <-s.notifyCh:
			s.log.Info("scheduler triggered by notification")
			s.run(ctx)
		}
	}
}

func (s *Scheduler) run(ctx context.Context) {
	advanced, err := s.ledger.AdvanceDueSeries(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error("advancement run failed", "error", err)
		return
	}
	if advanced > 0 {
		s.log.Info("advanced recurring series", "instances", advanced)
	}
}
