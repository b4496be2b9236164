// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/quote-scheduler/internal/domain"
)

// QuoteGateway is the remote CRUD boundary for quotes.
// The remote store is the source of truth for reads.
//
// Implementations should:
//   - Respect context deadlines and cancellation
//   - Map transport failures to domain.ErrUnavailable
//   - Translate wire records to domain.Quote
type QuoteGateway interface {
	// List returns every quote held by the remote store.
	List(ctx context.Context) ([]domain.Quote, error)

	// Create stores a new quote. The remote store assigns or echoes an id;
	// the returned quote carries the id that is authoritative from now on.
	Create(ctx context.Context, quote domain.Quote) (domain.Quote, error)

	// Update replaces the quote with quote.ID and returns the stored version.
	Update(ctx context.Context, quote domain.Quote) (domain.Quote, error)

	// Delete removes the quote with the given id and echoes the id back.
	Delete(ctx context.Context, id int64) (int64, error)
}

// Operation names a QuoteGateway operation for logging, metrics and journaling.
type Operation string

const (
	OpRefresh Operation = "refresh"
	OpCreate  Operation = "create"
	OpUpdate  Operation = "update"
	OpRemove  Operation = "remove"
)

// Outcome describes how a resolution affected the local collection.
type Outcome string

const (
	// OutcomeApplied means the collection changed (or was replaced) as a result.
	OutcomeApplied Outcome = "applied"

	// OutcomeStale means the resolution referred to an id no longer held locally.
	OutcomeStale Outcome = "stale"

	// OutcomeFailed means the gateway call failed and the collection is untouched.
	OutcomeFailed Outcome = "failed"
)

// Resolution records one applied gateway outcome.
type Resolution struct {
	Operation Operation
	QuoteID   int64
	Outcome   Outcome
	Error     string
	Duration  time.Duration
	At        time.Time
}

// ResolutionJournal keeps an audit trail of applied resolutions.
// Journaling is best effort: a failing journal never blocks the store.
type ResolutionJournal interface {
	Append(ctx context.Context, r Resolution) error
}

// ResolutionRecorder receives resolution outcomes for metrics.
type ResolutionRecorder interface {
	ObserveResolution(r Resolution)
	SetCollectionSize(n int)
}
