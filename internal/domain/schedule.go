package domain

import (
	"errors"
	"fmt"
	"time"
)

// MaxScheduleDates is the most dates a single quote may be scheduled on.
const MaxScheduleDates = 5

// DateLayout is the ISO-8601 calendar date layout used on the wire and in output.
const DateLayout = time.DateOnly

// RejectReason identifies why a schedule date was not accepted.
type RejectReason string

const (
	// RejectDuplicate means the calendar day is already scheduled.
	RejectDuplicate RejectReason = "duplicate"

	// RejectPast means the calendar day is before today (UTC).
	RejectPast RejectReason = "past"

	// RejectFull means the schedule already holds MaxScheduleDates entries.
	RejectFull RejectReason = "full"
)

// ScheduleRejectedError is returned when a date cannot be added to a ScheduleSet.
type ScheduleRejectedError struct {
	Reason RejectReason
	Date   time.Time
}

// Error implements the error interface.
func (e *ScheduleRejectedError) Error() string {
	day := e.Date.Format(DateLayout)

	switch e.Reason {
	case RejectDuplicate:
		return fmt.Sprintf("schedule date %s is already scheduled", day)
	case RejectPast:
		return fmt.Sprintf("schedule date %s is in the past", day)
	case RejectFull:
		return fmt.Sprintf("cannot schedule %s: at most %d dates allowed", day, MaxScheduleDates)
	default:
		return fmt.Sprintf("schedule date %s rejected", day)
	}
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ScheduleRejectedError) Unwrap() error {
	return ErrValidation
}

// IsScheduleRejected reports whether err was a rejected schedule date and returns the reason.
func IsScheduleRejected(err error) (RejectReason, bool) {
	var rejected *ScheduleRejectedError
	if errors.As(err, &rejected) {
		return rejected.Reason, true
	}

	return "", false
}

// CalendarDay truncates t to midnight UTC of the calendar day t falls on in its own location.
// A date picked at local midnight keeps its day instead of shifting across the UTC boundary.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current UTC calendar day for the given instant.
func Today(now time.Time) time.Time {
	return CalendarDay(now.UTC())
}

// ScheduleSet is an insertion-ordered set of distinct calendar days.
// The zero value is an empty, usable set.
type ScheduleSet struct {
	dates []time.Time
}

// NewScheduleSet builds a set from already persisted dates.
// Duplicates are dropped and at most MaxScheduleDates are kept, but past dates
// are retained: futurity is only enforced when a date is added by TryAdd.
func NewScheduleSet(dates ...time.Time) ScheduleSet {
	var s ScheduleSet
	for _, d := range dates {
		day := CalendarDay(d)
		if s.Contains(day) || len(s.dates) >= MaxScheduleDates {
			continue
		}
		s.dates = append(s.dates, day)
	}

	return s
}

// TryAdd appends date if it is not a duplicate, not before today, and the set is not full.
func (s *ScheduleSet) TryAdd(date, now time.Time) error {
	day := CalendarDay(date)

	if s.Contains(day) {
		return &ScheduleRejectedError{Reason: RejectDuplicate, Date: day}
	}

	if day.Before(Today(now)) {
		return &ScheduleRejectedError{Reason: RejectPast, Date: day}
	}

	if len(s.dates) >= MaxScheduleDates {
		return &ScheduleRejectedError{Reason: RejectFull, Date: day}
	}

	s.dates = append(s.dates, day)

	return nil
}

// Remove deletes the entry at index. An index that is out of range is ignored.
func (s *ScheduleSet) Remove(index int) {
	if index < 0 || index >= len(s.dates) {
		return
	}

	s.dates = append(s.dates[:index:index], s.dates[index+1:]...)
}

// IsSubmittable reports whether the set holds at least one date.
func (s ScheduleSet) IsSubmittable() bool {
	return len(s.dates) > 0
}

// Len returns the number of scheduled dates.
func (s ScheduleSet) Len() int {
	return len(s.dates)
}

// Contains reports whether the calendar day of t is scheduled.
func (s ScheduleSet) Contains(t time.Time) bool {
	day := CalendarDay(t)
	for _, d := range s.dates {
		if d.Equal(day) {
			return true
		}
	}

	return false
}

// Dates returns a copy of the scheduled days in insertion order.
func (s ScheduleSet) Dates() []time.Time {
	if len(s.dates) == 0 {
		return nil
	}

	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)

	return out
}

// Strings returns the scheduled days formatted with DateLayout.
func (s ScheduleSet) Strings() []string {
	out := make([]string, 0, len(s.dates))
	for _, d := range s.dates {
		out = append(out, d.Format(DateLayout))
	}

	return out
}

// Clone returns an independent copy of the set.
func (s ScheduleSet) Clone() ScheduleSet {
	return ScheduleSet{dates: s.Dates()}
}
