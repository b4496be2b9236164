package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-scheduler/internal/domain"
	"github.com/jsamuelsen/quote-scheduler/internal/platform/logging"
	"github.com/jsamuelsen/quote-scheduler/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-scheduler/internal/ports"
)

// ErrStoreClosed is returned by operations issued to, or still in flight on, a closed store.
var ErrStoreClosed = errors.New("quote store closed")

// QuoteStoreConfig contains dependencies for the quote store.
type QuoteStoreConfig struct {
	// Gateway is the remote CRUD boundary. Required.
	Gateway ports.QuoteGateway

	// Journal receives every applied resolution. Optional.
	Journal ports.ResolutionJournal

	// Recorder receives resolution metrics. Optional.
	Recorder ports.ResolutionRecorder

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger

	// Clock timestamps resolutions. Defaults to the real clock.
	Clock clockwork.Clock
}

// QuoteStore holds the authoritative local collection of quotes.
//
// Gateway calls run on their own goroutines. Their outcomes are queued and
// applied one at a time, in arrival order, by a single resolution goroutine,
// which is the only writer of the collection. Overlapping operations on the
// same id are not coalesced: the resolution that arrives last wins.
type QuoteStore struct {
	gateway  ports.QuoteGateway
	journal  ports.ResolutionJournal
	recorder ports.ResolutionRecorder
	logger   *slog.Logger
	clock    clockwork.Clock

	mu    sync.RWMutex
	items []domain.Quote

	subMu       sync.Mutex
	subscribers map[int]func([]domain.Quote)
	nextSubID   int

	resolutions chan resolution
	quit        chan struct{}
	stopped     chan struct{}
	closeOnce   sync.Once
}

// resolution is the outcome of one gateway call waiting to be applied.
type resolution struct {
	op       ports.Operation
	quoteID  int64
	err      error
	started  time.Time
	apply    func(items []domain.Quote) ([]domain.Quote, ports.Outcome)
	complete func(err error)
}

// NewQuoteStore creates a store and starts its resolution goroutine.
// Call Close to stop it.
func NewQuoteStore(cfg QuoteStoreConfig) *QuoteStore {
	if cfg.Gateway == nil {
		panic("QuoteStore: Gateway is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	s := &QuoteStore{
		gateway:     cfg.Gateway,
		journal:     cfg.Journal,
		recorder:    cfg.Recorder,
		logger:      logger.With(slog.String("component", "app.QuoteStore")),
		clock:       clock,
		subscribers: make(map[int]func([]domain.Quote)),
		resolutions: make(chan resolution),
		quit:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}

	go s.run()

	return s
}

// Refresh fetches the remote collection and, on success, replaces the local one.
func (s *QuoteStore) Refresh(ctx context.Context) *Pending[[]domain.Quote] {
	if s.closed() {
		return failedPending[[]domain.Quote](ErrStoreClosed)
	}

	p := newPending[[]domain.Quote]()

	go func() {
		started := s.clock.Now()
		ctx, span := s.startSpan(ctx, ports.OpRefresh, 0)
		defer span.End()

		fetched, err := s.gateway.List(ctx)
		endSpan(span, err)

		fresh := cloneQuotes(fetched)
		s.enqueue(resolution{
			op:      ports.OpRefresh,
			err:     err,
			started: started,
			apply: func([]domain.Quote) ([]domain.Quote, ports.Outcome) {
				return cloneQuotes(fresh), ports.OutcomeApplied
			},
			complete: func(err error) { p.resolve(fresh, err) },
		})
	}()

	return p
}

// Create sends quote to the gateway and, on success, adds the returned record.
// The returned id supersedes quote.ID. An existing entry with that id is replaced.
func (s *QuoteStore) Create(ctx context.Context, quote domain.Quote) *Pending[domain.Quote] {
	if s.closed() {
		return failedPending[domain.Quote](ErrStoreClosed)
	}

	p := newPending[domain.Quote]()
	proposed := quote.Clone()

	go func() {
		started := s.clock.Now()
		ctx, span := s.startSpan(ctx, ports.OpCreate, proposed.ID)
		defer span.End()

		created, err := s.gateway.Create(ctx, proposed)
		endSpan(span, err)

		id := created.ID
		if err != nil {
			id = proposed.ID
		}

		s.enqueue(resolution{
			op:      ports.OpCreate,
			quoteID: id,
			err:     err,
			started: started,
			apply: func(items []domain.Quote) ([]domain.Quote, ports.Outcome) {
				if i := indexOf(items, created.ID); i >= 0 {
					items[i] = created.Clone()
					return items, ports.OutcomeApplied
				}

				return append(items, created.Clone()), ports.OutcomeApplied
			},
			complete: func(err error) { p.resolve(created, err) },
		})
	}()

	return p
}

// Update sends quote to the gateway and, on success, replaces the local entry
// with the returned id. A result for an id no longer held is dropped.
func (s *QuoteStore) Update(ctx context.Context, quote domain.Quote) *Pending[domain.Quote] {
	if s.closed() {
		return failedPending[domain.Quote](ErrStoreClosed)
	}

	p := newPending[domain.Quote]()
	edited := quote.Clone()

	go func() {
		started := s.clock.Now()
		ctx, span := s.startSpan(ctx, ports.OpUpdate, edited.ID)
		defer span.End()

		updated, err := s.gateway.Update(ctx, edited)
		endSpan(span, err)

		id := updated.ID
		if err != nil {
			id = edited.ID
		}

		s.enqueue(resolution{
			op:      ports.OpUpdate,
			quoteID: id,
			err:     err,
			started: started,
			apply: func(items []domain.Quote) ([]domain.Quote, ports.Outcome) {
				i := indexOf(items, updated.ID)
				if i < 0 {
					return items, ports.OutcomeStale
				}

				items[i] = updated.Clone()

				return items, ports.OutcomeApplied
			},
			complete: func(err error) { p.resolve(updated, err) },
		})
	}()

	return p
}

// Remove deletes the quote remotely and, on success, drops the local entry if present.
// Removing an id that is not held locally is not an error.
func (s *QuoteStore) Remove(ctx context.Context, id int64) *Pending[int64] {
	if s.closed() {
		return failedPending[int64](ErrStoreClosed)
	}

	p := newPending[int64]()

	go func() {
		started := s.clock.Now()
		ctx, span := s.startSpan(ctx, ports.OpRemove, id)
		defer span.End()

		removed, err := s.gateway.Delete(ctx, id)
		endSpan(span, err)

		if err != nil {
			removed = id
		}

		s.enqueue(resolution{
			op:      ports.OpRemove,
			quoteID: removed,
			err:     err,
			started: started,
			apply: func(items []domain.Quote) ([]domain.Quote, ports.Outcome) {
				i := indexOf(items, removed)
				if i < 0 {
					return items, ports.OutcomeStale
				}

				return append(items[:i], items[i+1:]...), ports.OutcomeApplied
			},
			complete: func(err error) { p.resolve(removed, err) },
		})
	}()

	return p
}

// Snapshot returns a deep copy of the collection in display order.
func (s *QuoteStore) Snapshot() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneQuotes(s.items)
}

// Find returns a deep copy of the quote with id, if held.
func (s *QuoteStore) Find(id int64) (domain.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOf(s.items, id); i >= 0 {
		return s.items[i].Clone(), true
	}

	return domain.Quote{}, false
}

// Len returns the number of quotes held.
func (s *QuoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// Subscribe registers fn to receive a snapshot after every change to the collection.
// fn runs on the resolution goroutine and must not wait on store operations.
// The returned function unsubscribes.
func (s *QuoteStore) Subscribe(fn func([]domain.Quote)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// Close stops the resolution goroutine. Operations still in flight resolve
// with ErrStoreClosed and leave the collection untouched. Close is idempotent.
func (s *QuoteStore) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		<-s.stopped
	})
}

func (s *QuoteStore) closed() bool {
	select {
	case <-s.quit:
		return true
	default:
		return false
	}
}

// enqueue hands a resolution to the resolution goroutine, or fails it if the store is closed.
func (s *QuoteStore) enqueue(r resolution) {
	select {
	case s.resolutions <- r:
	case <-s.quit:
		r.complete(ErrStoreClosed)
	}
}

func (s *QuoteStore) run() {
	defer close(s.stopped)

	for {
		select {
		case r := <-s.resolutions:
			s.applyResolution(r)
		case <-s.quit:
			return
		}
	}
}

// applyResolution is only called from run.
func (s *QuoteStore) applyResolution(r resolution) {
	outcome := ports.OutcomeFailed

	var snapshot []domain.Quote

	if r.err == nil {
		s.mu.Lock()
		s.items, outcome = r.apply(s.items)
		size := len(s.items)
		snapshot = cloneQuotes(s.items)
		s.mu.Unlock()

		if s.recorder != nil {
			s.recorder.SetCollectionSize(size)
		}
	}

	s.record(r, outcome)

	if outcome == ports.OutcomeApplied {
		s.notify(snapshot)
	}

	r.complete(r.err)
}

func (s *QuoteStore) record(r resolution, outcome ports.Outcome) {
	res := ports.Resolution{
		Operation: r.op,
		QuoteID:   r.quoteID,
		Outcome:   outcome,
		Duration:  s.clock.Since(r.started),
		At:        s.clock.Now(),
	}
	if r.err != nil {
		res.Error = r.err.Error()
	}

	attrs := []any{
		slog.String("operation", string(r.op)),
		slog.Int64("quote_id", r.quoteID),
		slog.String("outcome", string(outcome)),
		slog.Duration("duration", res.Duration),
	}

	switch outcome {
	case ports.OutcomeFailed:
		s.logger.Warn("gateway operation failed", append(attrs, slog.Any("error", r.err))...)
	case ports.OutcomeStale:
		s.logger.Debug("dropped stale resolution", attrs...)
	default:
		s.logger.Log(context.Background(), logging.LevelTrace, "applied resolution", attrs...)
	}

	if s.recorder != nil {
		s.recorder.ObserveResolution(res)
	}

	if s.journal != nil {
		if err := s.journal.Append(context.Background(), res); err != nil {
			s.logger.Warn("failed to journal resolution", slog.Any("error", err))
		}
	}
}

func (s *QuoteStore) notify(snapshot []domain.Quote) {
	s.subMu.Lock()
	fns := make([]func([]domain.Quote), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(cloneQuotes(snapshot))
	}
}

func (s *QuoteStore) startSpan(ctx context.Context, op ports.Operation, id int64) (context.Context, trace.Span) {
	return telemetry.Tracer().Start(ctx, "QuoteStore."+string(op),
		trace.WithAttributes(
			attribute.String("quote.operation", string(op)),
			attribute.Int64("quote.id", id),
		),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func indexOf(items []domain.Quote, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}

	return -1
}

func cloneQuotes(quotes []domain.Quote) []domain.Quote {
	if quotes == nil {
		return nil
	}

	out := make([]domain.Quote, len(quotes))
	for i := range quotes {
		out[i] = quotes[i].Clone()
	}

	return out
}
