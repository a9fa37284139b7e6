// Package recurrence decides whether and when a recurring transaction series
// produces its next occurrence. It is pure: persistence of the materialized
// instance is the ledger's job.
package recurrence

import (
	"time"

	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/models"
)

// EndReason explains why a series produces no further occurrences.
type EndReason string

const (
	ReasonCancelled EndReason = "cancelled"
	ReasonExhausted EndReason = "installments-exhausted"
)

// Series is the recurrence state carried by an anchor transaction.
type Series struct {
	Type               models.RecurrenceType
	AnchorDate         time.Time
	TotalInstallments  *int
	CurrentInstallment int
	IsCancelled        bool
	CancelledAt        *time.Time
}

// NextOccurrence is the materialization instruction for one new instance.
type NextOccurrence struct {
	Date        time.Time
	Installment int
}

// Result holds either the next occurrence or the end of the series.
type Result struct {
	Next      *NextOccurrence
	EndReason EndReason
}

// Ended reports whether the series produces no further occurrences.
func (r Result) Ended() bool {
	return r.Next == nil
}

// Evaluate computes the next occurrence of a series as of the given date.
//
// Occurrence k+1 falls k periods after the anchor date, so the anchor's
// day-of-month is preserved across short months: a Jan 31 monthly series
// yields Feb 28 (29 in leap years), then Mar 31 again.
func Evaluate(s Series, asOf time.Time) (Result, error) {
	switch s.Type {
	case models.RecurrenceDaily, models.RecurrenceWeekly, models.RecurrenceMonthly, models.RecurrenceYearly:
	default:
		return Result{}, finerr.InvalidRecurrencef("recurrence type %q is not advanceable", s.Type)
	}
	if s.CurrentInstallment < 1 {
		return Result{}, finerr.InvalidRecurrencef("current installment %d below 1", s.CurrentInstallment)
	}
	if s.TotalInstallments != nil && s.CurrentInstallment > *s.TotalInstallments {
		return Result{}, finerr.InvalidRecurrencef(
			"current installment %d exceeds total %d", s.CurrentInstallment, *s.TotalInstallments)
	}

	if s.IsCancelled {
		return Result{EndReason: ReasonCancelled}, nil
	}

	if s.TotalInstallments != nil && s.CurrentInstallment+1 > *s.TotalInstallments {
		return Result{EndReason: ReasonExhausted}, nil
	}

	return Result{Next: &NextOccurrence{
		Date:        AddPeriods(s.AnchorDate, s.Type, s.CurrentInstallment),
		Installment: s.CurrentInstallment + 1,
	}}, nil
}

// AddPeriods returns the anchor date advanced by n recurrence periods.
// Monthly and yearly steps preserve the anchor's day-of-month, clamped to the
// last valid day of the target month (Jan 31 + 1 month = Feb 28/29; a Feb 29
// yearly anchor clamps to Feb 28 off leap years).
func AddPeriods(anchor time.Time, typ models.RecurrenceType, n int) time.Time {
	switch typ {
	case models.RecurrenceDaily:
		return anchor.AddDate(0, 0, n)
	case models.RecurrenceWeekly:
		return anchor.AddDate(0, 0, 7*n)
	case models.RecurrenceMonthly:
		return addMonthsClamped(anchor, n)
	case models.RecurrenceYearly:
		return addMonthsClamped(anchor, 12*n)
	}
	return anchor
}

func addMonthsClamped(t time.Time, months int) time.Time {
	// Normalize via the first of the month so AddDate cannot roll over
	// (time.AddDate turns Jan 31 + 1 month into Mar 2/3).
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, months, 0)

	day := t.Day()
	if last := daysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
