// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quote-scheduler/internal/domain"
	"github.com/jsamuelsen/quote-scheduler/internal/ports"
)

// QuoteService orchestrates the list-view use cases.
// It depends on port interfaces, not concrete implementations,
// following the Dependency Inversion Principle.
type QuoteService struct {
	store     *QuoteStore
	session   *EditingSession
	navigator *Navigator
	confirmer ports.Confirmer
	logger    *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Store     *QuoteStore
	Session   *EditingSession
	Navigator *Navigator

	// Confirmer gates deletes. A nil confirmer declines every delete.
	Confirmer ports.Confirmer

	Logger *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
// Panics if Store or Session is nil. A nil Navigator shares the session's.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Store == nil || cfg.Session == nil {
		panic("QuoteService: Store and Session are required")
	}

	navigator := cfg.Navigator
	if navigator == nil {
		navigator = cfg.Session.navigator
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		store:     cfg.Store,
		session:   cfg.Session,
		navigator: navigator,
		confirmer: cfg.Confirmer,
		logger:    logger,
	}
}

// Load refreshes the collection from the remote store and waits for it to be applied.
func (s *QuoteService) Load(ctx context.Context) ([]domain.Quote, error) {
	s.logger.DebugContext(ctx, "loading quotes")

	quotes, err := s.store.Refresh(ctx).Wait(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load quotes", slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "loaded quotes", slog.Int("count", len(quotes)))

	return s.store.Snapshot(), nil
}

// List returns the current collection without contacting the remote store.
func (s *QuoteService) List() []domain.Quote {
	return s.store.Snapshot()
}

// BeginCreate opens the form for a new quote.
func (s *QuoteService) BeginCreate(ctx context.Context) error {
	if err := s.session.Begin(nil); err != nil {
		return err
	}

	s.navigator.OpenForm(ctx, nil)

	return nil
}

// BeginEdit opens the form for the held quote with id.
func (s *QuoteService) BeginEdit(ctx context.Context, id int64) (domain.Quote, error) {
	quote, ok := s.store.Find(id)
	if !ok {
		return domain.Quote{}, domain.NewNotFoundError("quote", id)
	}

	if err := s.session.Begin(&quote); err != nil {
		return domain.Quote{}, err
	}

	s.navigator.OpenForm(ctx, &quote)

	s.logger.DebugContext(ctx, "editing quote", slog.Int64("quote_id", id))

	return quote, nil
}

// Delete asks for confirmation and, if given, removes the quote remotely
// and locally. It reports whether the delete went ahead.
func (s *QuoteService) Delete(ctx context.Context, id int64) (bool, error) {
	prompt := ports.Prompt{
		Title:   "Delete Quote?",
		Message: "Are you sure you want to delete this Quote? This cannot be undone",
	}

	if s.confirmer == nil || !s.confirmer.Confirm(ctx, prompt) {
		s.logger.DebugContext(ctx, "delete declined", slog.Int64("quote_id", id))
		return false, nil
	}

	if _, err := s.store.Remove(ctx, id).Wait(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete quote",
			slog.Int64("quote_id", id),
			slog.Any("error", err),
		)
		return false, err
	}

	s.logger.InfoContext(ctx, "deleted quote", slog.Int64("quote_id", id))

	return true, nil
}

// ScheduledOn returns the held quotes scheduled on the UTC calendar day of now.
func (s *QuoteService) ScheduledOn(now time.Time) []domain.Quote {
	today := domain.Today(now)

	var out []domain.Quote
	for _, q := range s.store.Snapshot() {
		if q.ScheduledOn(today) {
			out = append(out, q)
		}
	}

	return out
}
