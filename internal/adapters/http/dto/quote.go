package dto

import (
	"time"

	"github.com/jsamuelsen/quote-scheduler/internal/domain"
	"github.com/jsamuelsen/quote-scheduler/internal/ports"
)

// QuoteResponse is the ops view of a quote.
type QuoteResponse struct {
	ID             int64    `json:"id"`
	Text           string   `json:"text"`
	Author         string   `json:"author,omitempty"`
	ScheduledDates []string `json:"scheduledDates"`
}

// TodayQuery selects the day for /-/quotes/today.
type TodayQuery struct {
	// Date overrides today, as YYYY-MM-DD.
	Date string `form:"date" validate:"omitempty,datetime=2006-01-02"`

	// Refresh reloads the collection from the quote API first.
	Refresh bool `form:"refresh"`
}

// TodayResponse lists the quotes scheduled on one day.
type TodayResponse struct {
	Date   string          `json:"date"`
	Count  int             `json:"count"`
	Quotes []QuoteResponse `json:"quotes"`
}

// HistoryQuery pages the resolution journal.
type HistoryQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=500"`
}

// ResolutionResponse is one journaled store resolution.
type ResolutionResponse struct {
	Operation  string `json:"operation"`
	QuoteID    int64  `json:"quoteId"`
	Outcome    string `json:"outcome"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"durationMs"`
	At         string `json:"at"`
}

// ToQuoteResponse converts a domain quote to its ops view.
func ToQuoteResponse(q domain.Quote) QuoteResponse {
	dates := q.Schedule.Strings()
	if dates == nil {
		dates = []string{}
	}

	return QuoteResponse{
		ID:             q.ID,
		Text:           q.Text,
		Author:         q.Author,
		ScheduledDates: dates,
	}
}

// NewTodayResponse builds the response for day.
func NewTodayResponse(day time.Time, quotes []domain.Quote) TodayResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, ToQuoteResponse(q))
	}

	return TodayResponse{
		Date:   day.Format(domain.DateLayout),
		Count:  len(out),
		Quotes: out,
	}
}

// ToResolutionResponses converts journal entries to their ops view.
func ToResolutionResponses(rs []ports.Resolution) []ResolutionResponse {
	out := make([]ResolutionResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, ResolutionResponse{
			Operation:  string(r.Operation),
			QuoteID:    r.QuoteID,
			Outcome:    string(r.Outcome),
			Error:      r.Error,
			DurationMS: r.Duration.Milliseconds(),
			At:         r.At.UTC().Format(time.RFC3339),
		})
	}

	return out
}
