package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

// ErrJobNotFound is returned when a job id is not known to the scheduler.
var ErrJobNotFound = errors.New("scheduled job not found")

// Scheduler wraps a gocron scheduler running in UTC.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
}

// NewScheduler creates a scheduler driven by clock. A nil clock uses the real one.
func NewScheduler(clock clockwork.Clock, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "daemon.Scheduler"))

	opts := []gocron.SchedulerOption{
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(logger),
	}
	if clock != nil {
		opts = append(opts, gocron.WithClock(clock))
	}

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{scheduler: s, logger: logger}, nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")
	s.scheduler.Start()
}

// Stop shuts the scheduler down, cancelling the context handed to running jobs.
func (s *Scheduler) Stop() error {
	s.logger.Info("stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleEvery runs task every interval. A run still in progress when the
// next one is due pushes that run to the following interval.
func (s *Scheduler) ScheduleEvery(name string, interval time.Duration, task func(context.Context)) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("interval for %q must be positive, got %s", name, interval)
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create %q job: %w", name, err)
	}

	return job.ID().String(), nil
}

// ScheduleDaily runs task once a day at the UTC wall-clock time at ("15:04").
func (s *Scheduler) ScheduleDaily(name, at string, task func(context.Context)) (string, error) {
	hour, minute, err := parseClock(at)
	if err != nil {
		return "", fmt.Errorf("invalid time of day for %q: %w", name, err)
	}

	job, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create %q job: %w", name, err)
	}

	return job.ID().String(), nil
}

// NextRun returns when the job with id runs next. It is zero until the
// scheduler has started.
func (s *Scheduler) NextRun(id string) (time.Time, error) {
	for _, job := range s.scheduler.Jobs() {
		if job.ID().String() != id {
			continue
		}

		next, err := job.NextRun()
		if err != nil {
			return time.Time{}, fmt.Errorf("next run of %q: %w", job.Name(), err)
		}

		return next, nil
	}

	return time.Time{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
}

// parseClock splits "15:04" into hour and minute.
func parseClock(at string) (hour, minute uint, err error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return 0, 0, err
	}

	return uint(t.Hour()), uint(t.Minute()), nil //nolint:gosec // bounded by the layout
}
