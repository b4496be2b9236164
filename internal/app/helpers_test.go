package app

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-scheduler/internal/domain"
	"github.com/jsamuelsen/quote-scheduler/internal/mocks"
	"github.com/jsamuelsen/quote-scheduler/internal/ports"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scheduleComparer compares schedules by their calendar days.
var scheduleComparer = cmp.Comparer(func(a, b domain.ScheduleSet) bool {
	return slices.Equal(a.Strings(), b.Strings())
})

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newQuote(id int64, text, author string, days ...time.Time) domain.Quote {
	return domain.Quote{ID: id, Text: text, Author: author, Schedule: domain.NewScheduleSet(days...)}
}

func assertQuotes(t *testing.T, want, got []domain.Quote) {
	t.Helper()

	if diff := cmp.Diff(want, got, scheduleComparer); diff != "" {
		t.Errorf("collection mismatch (-want +got):\n%s", diff)
	}
}

// wait resolves p or fails the test after a second.
func wait[T any](t *testing.T, p *Pending[T]) (T, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	v, err := p.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "operation did not resolve")

	return v, err
}

// newTestStore returns a store over a mock gateway, closed at test end.
func newTestStore(t *testing.T, opts ...func(*QuoteStoreConfig)) (*QuoteStore, *mocks.MockQuoteGateway) {
	t.Helper()

	gw := mocks.NewMockQuoteGateway(t)
	cfg := QuoteStoreConfig{Gateway: gw, Logger: discardLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := NewQuoteStore(cfg)
	t.Cleanup(store.Close)

	return store, gw
}

// seed loads quotes into the store through a refresh.
func seed(t *testing.T, store *QuoteStore, gw *mocks.MockQuoteGateway, quotes ...domain.Quote) {
	t.Helper()

	gw.EXPECT().List(mock.Anything).Return(quotes, nil).Once()

	_, err := wait(t, store.Refresh(context.Background()))
	require.NoError(t, err)
}

// fakeRecorder captures resolutions reported to a ports.ResolutionRecorder.
type fakeRecorder struct {
	mu          sync.Mutex
	resolutions []ports.Resolution
	size        int
}

func (r *fakeRecorder) ObserveResolution(res ports.Resolution) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolutions = append(r.resolutions, res)
}

func (r *fakeRecorder) SetCollectionSize(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = n
}

func (r *fakeRecorder) outcomes() []ports.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ports.Outcome, 0, len(r.resolutions))
	for _, res := range r.resolutions {
		out = append(out, res.Outcome)
	}

	return out
}

// fakeJournal captures appended resolutions and can be made to fail.
type fakeJournal struct {
	mu      sync.Mutex
	entries []ports.Resolution
	err     error
}

func (j *fakeJournal) Append(_ context.Context, r ports.Resolution) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.err != nil {
		return j.err
	}

	j.entries = append(j.entries, r)

	return nil
}

// fakePresenter records notifications and view changes.
type fakePresenter struct {
	mu            sync.Mutex
	notifications []ports.Notification
	views         []ports.View
}

func (p *fakePresenter) Notify(_ context.Context, n ports.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, n)
}

func (p *fakePresenter) ShowView(_ context.Context, v ports.View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.views = append(p.views, v)
}

func (p *fakePresenter) lastNotification() (ports.Notification, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.notifications) == 0 {
		return ports.Notification{}, false
	}

	return p.notifications[len(p.notifications)-1], true
}

// recordingConfirmer answers every prompt with answer and records the prompts.
type recordingConfirmer struct {
	answer  bool
	prompts []ports.Prompt
}

func (c *recordingConfirmer) Confirm(_ context.Context, p ports.Prompt) bool {
	c.prompts = append(c.prompts, p)
	return c.answer
}
