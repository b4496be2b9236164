// Package daemon runs the long-lived quote scheduler: a periodic refresh of the
// collection, a daily announcement of the quotes scheduled for the day, and the
// operational HTTP server.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/quote-scheduler/internal/domain"
	"github.com/jsamuelsen/quote-scheduler/internal/platform/logging"
)

// Job names as they appear in logs and metrics.
const (
	RefreshJobName  = "refresh-quotes"
	AnnounceJobName = "announce-today"
)

// QuoteSource is the part of the quote service the daemon drives.
type QuoteSource interface {
	Load(ctx context.Context) ([]domain.Quote, error)
	ScheduledOn(now time.Time) []domain.Quote
}

// Announcer publishes the quotes scheduled for a day.
type Announcer interface {
	Announce(ctx context.Context, day time.Time, quotes []domain.Quote)
}

// AnnouncementRecorder counts announced quotes.
type AnnouncementRecorder interface {
	AddAnnouncements(n int)
}

// Runner is a component that serves until its context is done.
type Runner interface {
	Run(ctx context.Context) error
}

// Config contains the daemon's dependencies and schedule.
type Config struct {
	// Quotes is refreshed and queried for today's quotes. Required.
	Quotes QuoteSource

	// Announcer receives the daily announcement. Required.
	Announcer Announcer

	// Recorder counts announcements. Optional.
	Recorder AnnouncementRecorder

	// Server runs alongside the scheduler. Optional.
	Server Runner

	RefreshInterval time.Duration

	// AnnounceAt is the UTC time of day ("15:04") of the announcement.
	AnnounceAt string

	// Clock drives the schedule. Defaults to the real clock.
	Clock clockwork.Clock

	Logger *slog.Logger
}

// Daemon owns the scheduler and the jobs registered on it.
type Daemon struct {
	quotes    QuoteSource
	announcer Announcer
	recorder  AnnouncementRecorder
	server    Runner
	clock     clockwork.Clock
	logger    *slog.Logger

	scheduler  *Scheduler
	refreshID  string
	announceID string
}

// New validates cfg and registers the refresh and announcement jobs.
func New(cfg Config) (*Daemon, error) {
	if cfg.Quotes == nil || cfg.Announcer == nil {
		return nil, errors.New("daemon: Quotes and Announcer are required")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	scheduler, err := NewScheduler(clock, logger)
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		quotes:    cfg.Quotes,
		announcer: cfg.Announcer,
		recorder:  cfg.Recorder,
		server:    cfg.Server,
		clock:     clock,
		logger:    logger.With(slog.String("component", "daemon")),
		scheduler: scheduler,
	}

	d.refreshID, err = scheduler.ScheduleEvery(RefreshJobName, cfg.RefreshInterval, d.runRefresh)
	if err != nil {
		_ = scheduler.Stop()
		return nil, err
	}

	d.announceID, err = scheduler.ScheduleDaily(AnnounceJobName, cfg.AnnounceAt, d.runAnnounce)
	if err != nil {
		_ = scheduler.Stop()
		return nil, err
	}

	return d, nil
}

// Run loads the collection once, starts the scheduler and the server, and
// blocks until ctx is done or the server fails. A failed initial load is
// logged and retried on the next refresh.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.InfoContext(ctx, "daemon starting")

	if err := d.Refresh(ctx); err != nil {
		d.logger.WarnContext(ctx, "initial load failed, waiting for next refresh", slog.Any("error", err))
	}

	d.scheduler.Start()

	g, gctx := errgroup.WithContext(ctx)

	if d.server != nil {
		g.Go(func() error {
			return d.server.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		if err := d.scheduler.Stop(); err != nil {
			return fmt.Errorf("stopping scheduler: %w", err)
		}

		return nil
	})

	err := g.Wait()

	d.logger.InfoContext(ctx, "daemon stopped")

	return err
}

// Refresh reloads the collection from the remote store.
func (d *Daemon) Refresh(ctx context.Context) error {
	ctx = logging.EnsureCorrelationID(ctx)

	quotes, err := d.quotes.Load(ctx)
	if err != nil {
		return err
	}

	d.logger.DebugContext(ctx, "refreshed quotes", slog.Int("count", len(quotes)))

	return nil
}

// Announce hands the quotes scheduled for the current UTC day to the
// announcer and returns how many there were.
func (d *Daemon) Announce(ctx context.Context) int {
	ctx = logging.EnsureCorrelationID(ctx)

	now := d.clock.Now()
	quotes := d.quotes.ScheduledOn(now)

	d.announcer.Announce(ctx, domain.Today(now), quotes)

	if d.recorder != nil {
		d.recorder.AddAnnouncements(len(quotes))
	}

	d.logger.InfoContext(ctx, "announced today's quotes", slog.Int("count", len(quotes)))

	return len(quotes)
}

// NextRefresh returns when the refresh job runs next.
func (d *Daemon) NextRefresh() (time.Time, error) {
	return d.scheduler.NextRun(d.refreshID)
}

// NextAnnouncement returns when the announcement job runs next.
func (d *Daemon) NextAnnouncement() (time.Time, error) {
	return d.scheduler.NextRun(d.announceID)
}

func (d *Daemon) runRefresh(ctx context.Context) {
	if err := d.Refresh(ctx); err != nil {
		d.logger.ErrorContext(ctx, "scheduled refresh failed", slog.Any("error", err))
	}
}

func (d *Daemon) runAnnounce(ctx context.Context) {
	d.Announce(ctx)
}
