// Package domain contains core business entities and rules.
package domain

import "time"

const (
	// MaxTextLength is the longest quote text accepted, in runes.
	MaxTextLength = 256

	// MaxAuthorLength is the longest author name accepted, in runes.
	MaxAuthorLength = 100
)

// Quote is a user-authored quotation scheduled to be shown on up to
// MaxScheduleDates calendar days.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID identifies the quote within a collection. Zero means not yet assigned.
	ID int64

	// Text is the quotation itself.
	Text string

	// Author is who said or wrote the quote. May be empty.
	Author string

	// Schedule holds the days on which the quote is shown.
	Schedule ScheduleSet
}

// Clone returns a deep copy, including an independent ScheduleSet.
func (q Quote) Clone() Quote {
	q.Schedule = q.Schedule.Clone()
	return q
}

// ScheduledOn reports whether the quote is scheduled on the calendar day of t.
func (q Quote) ScheduledOn(t time.Time) bool {
	return q.Schedule.Contains(t)
}
