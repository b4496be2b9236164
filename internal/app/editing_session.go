package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/quote-scheduler/internal/domain"
	"github.com/jsamuelsen/quote-scheduler/internal/ports"
)

// ErrInvalidState is returned when a session operation is not allowed in the current state.
var ErrInvalidState = errors.New("invalid editing session state")

// DefaultNavigationDelay is how long the success message stays before the list is shown.
const DefaultNavigationDelay = 2 * time.Second

// placeholderIDRange bounds client-generated ids for new quotes.
const placeholderIDRange = 1_000_000

// User-facing messages.
const (
	MsgQuoteAdded  = "Quote added to library successfully!"
	MsgQuoteEdited = "Quote edited successfully!"
)

// SessionState is the lifecycle state of an EditingSession.
type SessionState int

const (
	// SessionEmpty means no quote is staged.
	SessionEmpty SessionState = iota

	// SessionEditing means fields are staged and mutable.
	SessionEditing

	// SessionSubmitting means a create or update is in flight and fields are frozen.
	SessionSubmitting
)

// String returns a human-readable name for the state.
func (s SessionState) String() string {
	switch s {
	case SessionEmpty:
		return "empty"
	case SessionEditing:
		return "editing"
	case SessionSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// StagedQuote is a read-only view of the session's staged fields.
type StagedQuote struct {
	// ID is the quote being edited. Zero when Editing is false.
	ID          int64
	Editing     bool
	Text        string
	Author      string
	Dates       []time.Time
	Submittable bool
}

// submission carries the field limits checked at submit time.
type submission struct {
	Text   string `validate:"required,max=256"`
	Author string `validate:"max=100"`
}

var submissionValidator = validator.New(validator.WithRequiredStructEnabled())

// EditingSessionConfig contains dependencies for an editing session.
type EditingSessionConfig struct {
	// Store receives the create or update on submit. Required.
	Store *QuoteStore

	// Navigator is told to show the list after discard and after a successful submit.
	Navigator *Navigator

	// Presenter receives success and failure notifications. Optional.
	Presenter ports.Presenter

	// Clock supplies "today" for date validation and drives the navigation delay.
	Clock clockwork.Clock

	// NavigationDelay is the pause between a success notification and showing the list.
	// Zero uses DefaultNavigationDelay; a negative value navigates immediately.
	NavigationDelay time.Duration

	// NewID generates placeholder ids for new quotes. Defaults to a random id below 1,000,000.
	NewID func() int64

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// EditingSession stages one quote being created or edited.
//
// State machine: Empty → Editing (Begin) → Submitting (Submit) → Empty on
// success or Editing on failure. Discard returns Editing to Empty.
type EditingSession struct {
	store     *QuoteStore
	navigator *Navigator
	presenter ports.Presenter
	clock     clockwork.Clock
	delay     time.Duration
	newID     func() int64
	logger    *slog.Logger

	mu        sync.Mutex
	state     SessionState
	editingID *int64
	text      string
	author    string
	schedule  domain.ScheduleSet
	navTimer  clockwork.Timer
}

// NewEditingSession creates an empty session.
func NewEditingSession(cfg EditingSessionConfig) *EditingSession {
	if cfg.Store == nil {
		panic("EditingSession: Store is required")
	}

	presenter := cfg.Presenter
	if presenter == nil {
		presenter = nopPresenter{}
	}

	navigator := cfg.Navigator
	if navigator == nil {
		navigator = NewNavigator(presenter)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	delay := cfg.NavigationDelay
	if delay == 0 {
		delay = DefaultNavigationDelay
	}

	newID := cfg.NewID
	if newID == nil {
		newID = func() int64 { return rand.Int64N(placeholderIDRange) } //nolint:gosec // placeholder, not a secret
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &EditingSession{
		store:     cfg.Store,
		navigator: navigator,
		presenter: presenter,
		clock:     clock,
		delay:     delay,
		newID:     newID,
		logger:    logger.With(slog.String("component", "app.EditingSession")),
	}
}

// State returns the current lifecycle state.
func (s *EditingSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Staged returns a copy of the staged fields.
func (s *EditingSession) Staged() StagedQuote {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := StagedQuote{
		Text:        s.text,
		Author:      s.author,
		Dates:       s.schedule.Dates(),
		Submittable: s.schedule.IsSubmittable() && strings.TrimSpace(s.text) != "",
	}
	if s.editingID != nil {
		staged.ID, staged.Editing = *s.editingID, true
	}

	return staged
}

// Begin enters Editing. A non-nil existing quote is deep-copied so later
// changes to the store's collection do not reach the staged fields;
// nil starts a new quote with empty fields.
// Begin is not allowed while a submit is in flight.
func (s *EditingSession) Begin(existing *domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SessionSubmitting {
		return fmt.Errorf("%w: begin while %s", ErrInvalidState, s.state)
	}

	if s.navTimer != nil {
		s.navTimer.Stop()
		s.navTimer = nil
	}

	s.reset()

	if existing != nil {
		q := existing.Clone()
		id := q.ID
		s.editingID = &id
		s.text = q.Text
		s.author = q.Author
		s.schedule = q.Schedule
	}

	s.state = SessionEditing

	return nil
}

// SetText stages the quote text, clipped to domain.MaxTextLength runes.
func (s *EditingSession) SetText(text string) error {
	return s.edit("set text", func() { s.text = clip(text, domain.MaxTextLength) })
}

// SetAuthor stages the author, clipped to domain.MaxAuthorLength runes.
func (s *EditingSession) SetAuthor(author string) error {
	return s.edit("set author", func() { s.author = clip(author, domain.MaxAuthorLength) })
}

// AddDate stages a schedule date. A duplicate, past or sixth date is
// rejected with a *domain.ScheduleRejectedError.
func (s *EditingSession) AddDate(date time.Time) error {
	var rejected error

	if err := s.edit("add date", func() { rejected = s.schedule.TryAdd(date, s.clock.Now()) }); err != nil {
		return err
	}

	return rejected
}

// RemoveDate removes the staged date at index. An out-of-range index is ignored.
func (s *EditingSession) RemoveDate(index int) error {
	return s.edit("remove date", func() { s.schedule.Remove(index) })
}

func (s *EditingSession) edit(op string, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SessionEditing {
		return fmt.Errorf("%w: %s while %s", ErrInvalidState, op, s.state)
	}

	fn()

	return nil
}

// Discard abandons the staged quote and shows the list.
// When anything is staged the confirmer is asked first; if it declines,
// the session stays in Editing and Discard returns false.
func (s *EditingSession) Discard(ctx context.Context, confirmer ports.Confirmer) (bool, error) {
	s.mu.Lock()
	if s.state != SessionEditing {
		state := s.state
		s.mu.Unlock()

		return false, fmt.Errorf("%w: discard while %s", ErrInvalidState, state)
	}

	needsConfirm := s.text != "" || s.author != "" || s.schedule.Len() > 0
	prompt := discardPrompt(s.editingID != nil)
	s.mu.Unlock()

	if needsConfirm && (confirmer == nil || !confirmer.Confirm(ctx, prompt)) {
		return false, nil
	}

	s.mu.Lock()
	if s.state != SessionEditing {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: discard while %s", ErrInvalidState, s.state)
	}
	s.reset()
	s.state = SessionEmpty
	s.mu.Unlock()

	s.navigator.ShowList(ctx)

	return true, nil
}

// Submit validates the staged quote and dispatches exactly one create
// (new quote, fresh placeholder id) or update (edited quote, original id).
//
// An empty schedule, blank text or over-long fields fail synchronously with
// a domain validation error and leave the session unchanged. Otherwise the
// session moves to Submitting and the returned Pending resolves once the
// store has applied the outcome: on success the session is Empty and the
// list is shown after the navigation delay; on failure the session is back in
// Editing with its fields intact.
func (s *EditingSession) Submit(ctx context.Context) (*Pending[domain.Quote], error) {
	s.mu.Lock()

	if s.state != SessionEditing {
		state := s.state
		s.mu.Unlock()

		return nil, fmt.Errorf("%w: submit while %s", ErrInvalidState, state)
	}

	quote, err := s.build()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	editing := s.editingID != nil
	s.state = SessionSubmitting
	s.mu.Unlock()

	var dispatched *Pending[domain.Quote]
	if editing {
		dispatched = s.store.Update(ctx, quote)
	} else {
		dispatched = s.store.Create(ctx, quote)
	}

	out := newPending[domain.Quote]()
	notifyCtx := context.WithoutCancel(ctx)

	go func() {
		<-dispatched.Done()
		result, err := dispatched.Wait(notifyCtx)
		s.finishSubmit(notifyCtx, editing, err)
		out.resolve(result, err)
	}()

	return out, nil
}

// build validates the staged fields and constructs the quote to dispatch.
// Caller holds s.mu.
func (s *EditingSession) build() (domain.Quote, error) {
	if !s.schedule.IsSubmittable() {
		return domain.Quote{}, domain.NewValidationError("schedule", "at least one date is required")
	}

	// Surrounding whitespace only matters for the emptiness check; the text
	// is sent as typed.
	if err := submissionValidator.Struct(submission{Text: strings.TrimSpace(s.text), Author: s.author}); err != nil {
		return domain.Quote{}, translateValidation(err)
	}

	id := s.newID()
	if s.editingID != nil {
		id = *s.editingID
	}

	return domain.Quote{
		ID:       id,
		Text:     s.text,
		Author:   s.author,
		Schedule: s.schedule.Clone(),
	}, nil
}

func (s *EditingSession) finishSubmit(ctx context.Context, editing bool, err error) {
	if err != nil {
		s.mu.Lock()
		s.state = SessionEditing
		s.mu.Unlock()

		s.logger.Warn("submit failed", slog.Bool("editing", editing), slog.Any("error", err))
		s.presenter.Notify(ctx, ports.Notification{
			Severity: ports.SeverityError,
			Message:  failureMessage(editing, err),
		})

		return
	}

	message := MsgQuoteAdded
	if editing {
		message = MsgQuoteEdited
	}

	s.mu.Lock()
	s.reset()
	s.state = SessionEmpty
	if s.delay > 0 {
		s.navTimer = s.clock.AfterFunc(s.delay, func() { s.navigator.ShowList(ctx) })
	}
	s.mu.Unlock()

	s.presenter.Notify(ctx, ports.Notification{Severity: ports.SeveritySuccess, Message: message})

	if s.delay < 0 {
		s.navigator.ShowList(ctx)
	}
}

// reset clears staged fields. Caller holds s.mu.
func (s *EditingSession) reset() {
	s.editingID = nil
	s.text = ""
	s.author = ""
	s.schedule = domain.ScheduleSet{}
}

func discardPrompt(editing bool) ports.Prompt {
	if editing {
		return ports.Prompt{
			Title:   "Discard editing Quote?",
			Message: "Are you sure you want to cancel editing Quote, you will lose all your changes here",
		}
	}

	return ports.Prompt{
		Title:   "Discard Quote creation?",
		Message: "Are you sure you want to cancel Quote creation? You will lose all your data added here",
	}
}

func failureMessage(editing bool, err error) string {
	if editing {
		return "Failed to edit quote: " + err.Error()
	}

	return "Failed to add quote: " + err.Error()
}

// translateValidation converts validator errors to a domain validation error
// for the first failing field.
func translateValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.NewValidationError("", err.Error())
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return domain.NewValidationError(field, "is required")
	case "max":
		return domain.NewValidationError(field, fmt.Sprintf("must be at most %s characters", fe.Param()))
	default:
		return domain.NewValidationError(field, "is invalid")
	}
}

// clip truncates s to at most n runes.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	return string([]rune(s)[:n])
}
