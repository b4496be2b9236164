package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"

	"github.com/jsamuelsen/quote-scheduler/internal/adapters/http"
	"github.com/jsamuelsen/quote-scheduler/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-scheduler/internal/app"
	"github.com/jsamuelsen/quote-scheduler/internal/daemon"
	"github.com/jsamuelsen/quote-scheduler/internal/domain"
	"github.com/jsamuelsen/quote-scheduler/internal/platform/config"
	"github.com/jsamuelsen/quote-scheduler/internal/platform/logging"
	"github.com/jsamuelsen/quote-scheduler/internal/ports"
)

// ErrJournalDisabled is returned by commands that read the resolution journal
// when it is not enabled.
var ErrJournalDisabled = errors.New("resolution journal is disabled (set journal.enabled)")

// CLI definition & global flags.
type CLI struct {
	Profile   string           `short:"p" env:"APP_ENVIRONMENT" default:"local" help:"Configuration profile, loaded from {config-dir}/{profile}.yaml."`
	ConfigDir string           `name:"config-dir" default:"configs" help:"Directory holding base.yaml and the profile files."`
	BaseURL   string           `name:"base-url" help:"Quote API base URL, overriding services.quote.base_url."`
	Verbose   bool             `short:"v" help:"Enable debug logging."`
	Yes       bool             `short:"y" help:"Answer yes to confirmation prompts."`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit."`

	List    ListCmd    `cmd:"" default:"1" help:"List every quote in the library."`
	Add     AddCmd     `cmd:"" help:"Add a quote scheduled on one or more days."`
	Edit    EditCmd    `cmd:"" help:"Edit a quote's text, author or schedule."`
	Delete  DeleteCmd  `cmd:"" help:"Delete a quote after confirmation."`
	Today   TodayCmd   `cmd:"" help:"Show the quotes scheduled for today."`
	History HistoryCmd `cmd:"" help:"Show applied store resolutions from the journal."`
	Daemon  DaemonCmd  `cmd:"" help:"Refresh and announce quotes on a schedule, serving health and metrics."`
}

// apply lets global flags override loaded configuration.
func (c *CLI) apply(cfg *config.Config) {
	if c.BaseURL != "" {
		cfg.Services.Quote.BaseURL = c.BaseURL
	}

	if c.Verbose {
		cfg.Log.Level = "debug"
	}
}

// ListCmd implements the 'list' command.
type ListCmd struct{}

func (l *ListCmd) Run(ctx context.Context, a *App) error {
	ctx = logging.EnsureCorrelationID(ctx)

	quotes, err := a.Service.Load(ctx)
	if err != nil {
		return err
	}

	printQuotes(a.Out, quotes)

	return nil
}

// AddCmd implements the 'add' command.
type AddCmd struct {
	Text   string   `short:"t" required:"" help:"Quote text (at most 256 characters)."`
	Author string   `short:"a" help:"Who said it (at most 100 characters)."`
	Dates  []string `name:"date" short:"d" required:"" placeholder:"YYYY-MM-DD" help:"Day to show the quote; repeat for up to five days."`
}

func (c *AddCmd) Run(ctx context.Context, a *App) error {
	ctx = logging.EnsureCorrelationID(ctx)

	if err := a.Service.BeginCreate(ctx); err != nil {
		return err
	}

	if err := stage(a.Session, c.Text, c.Author, c.Dates, nil); err != nil {
		return err
	}

	quote, err := submit(ctx, a.Session)
	if err != nil {
		return err
	}

	printQuote(a.Out, quote)

	return nil
}

// EditCmd implements the 'edit' command.
type EditCmd struct {
	ID          int64    `arg:"" help:"Id of the quote to edit."`
	Text        string   `short:"t" help:"New quote text."`
	Author      string   `short:"a" xor:"author" help:"New author."`
	ClearAuthor bool     `name:"clear-author" xor:"author" help:"Remove the author."`
	AddDates    []string `name:"add-date" placeholder:"YYYY-MM-DD" help:"Schedule an additional day."`
	RemoveDates []string `name:"remove-date" placeholder:"YYYY-MM-DD" help:"Unschedule a day."`
}

func (c *EditCmd) Run(ctx context.Context, a *App) error {
	ctx = logging.EnsureCorrelationID(ctx)

	if _, err := a.Service.Load(ctx); err != nil {
		return err
	}

	current, err := a.Service.BeginEdit(ctx, c.ID)
	if err != nil {
		return err
	}

	text, author := current.Text, current.Author
	if c.Text != "" {
		text = c.Text
	}

	switch {
	case c.ClearAuthor:
		author = ""
	case c.Author != "":
		author = c.Author
	}

	if err := stage(a.Session, text, author, c.AddDates, c.RemoveDates); err != nil {
		return err
	}

	quote, err := submit(ctx, a.Session)
	if err != nil {
		return err
	}

	printQuote(a.Out, quote)

	return nil
}

// DeleteCmd implements the 'delete' command.
type DeleteCmd struct {
	ID int64 `arg:"" help:"Id of the quote to delete."`
}

func (c *DeleteCmd) Run(ctx context.Context, a *App) error {
	ctx = logging.EnsureCorrelationID(ctx)

	if _, err := a.Service.Load(ctx); err != nil {
		return err
	}

	if _, ok := a.Store.Find(c.ID); !ok {
		return domain.NewNotFoundError("quote", c.ID)
	}

	deleted, err := a.Service.Delete(ctx, c.ID)
	if err != nil {
		return err
	}

	if deleted {
		fmt.Fprintf(a.Out, "Deleted quote #%d\n", c.ID)
	} else {
		fmt.Fprintf(a.Out, "Kept quote #%d\n", c.ID)
	}

	return nil
}

// TodayCmd implements the 'today' command.
type TodayCmd struct {
	Date string `placeholder:"YYYY-MM-DD" help:"Show another day instead of today (UTC)."`
}

func (c *TodayCmd) Run(ctx context.Context, a *App) error {
	ctx = logging.EnsureCorrelationID(ctx)

	day := domain.Today(a.Clock.Now())
	if c.Date != "" {
		parsed, err := parseDay(c.Date)
		if err != nil {
			return err
		}

		day = parsed
	}

	if _, err := a.Service.Load(ctx); err != nil {
		return err
	}

	printToday(a.Out, day, a.Service.ScheduledOn(day))

	return nil
}

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int   `short:"n" default:"20" help:"Show at most this many entries, newest first."`
	Quote int64 `short:"q" help:"Only show the resolutions of this quote id, oldest first."`
}

func (c *HistoryCmd) Run(ctx context.Context, a *App) error {
	if a.Journal == nil {
		return ErrJournalDisabled
	}

	var (
		history []ports.Resolution
		err     error
	)

	if c.Quote != 0 {
		history, err = a.Journal.ForQuote(ctx, c.Quote)
	} else {
		history, err = a.Journal.History(ctx, c.Limit)
	}

	if err != nil {
		return fmt.Errorf("reading journal: %w", err)
	}

	printResolutions(a.Out, history)

	return nil
}

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	NoServer bool `name:"no-server" help:"Do not start the ops HTTP server."`
}

func (c *DaemonCmd) Run(ctx context.Context, a *App) error {
	cfg := a.Config

	dcfg := daemon.Config{
		Quotes:          a.Service,
		Announcer:       newTerminalAnnouncer(a.Out),
		Recorder:        a.Metrics,
		RefreshInterval: cfg.Daemon.RefreshInterval,
		AnnounceAt:      cfg.Daemon.AnnounceAt,
		Clock:           a.Clock,
		Logger:          a.Logger,
	}

	if !c.NoServer {
		dcfg.Server = newOpsServer(a)
	}

	d, err := daemon.New(dcfg)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	a.Logger.InfoContext(ctx, "starting daemon",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.Duration("refresh_interval", cfg.Daemon.RefreshInterval),
		slog.String("announce_at", cfg.Daemon.AnnounceAt),
	)

	if err := d.Run(ctx); err != nil {
		return fmt.Errorf("daemon error: %w", err)
	}

	return nil
}

// newOpsServer builds the ops HTTP server with health, metrics and quote routes.
func newOpsServer(a *App) *http.Server {
	var history handlers.HistoryReader
	if a.Journal != nil {
		history = a.Journal
	}

	server := http.New(&a.Config.Daemon.Ops, a.Logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:      a.Logger,
		ServiceName: a.Config.Telemetry.ServiceName,
		HealthHandler: handlers.NewHealthHandler(
			a.Health,
			handlers.NewBuildInfo(Version, Commit, BuildTime),
			a.Metrics.Handler(),
		),
		QuoteHandler: handlers.NewQuoteHandler(a.Service, history, a.Clock),
	})

	return server
}

// stage writes the command's fields into the editing session. Removals are
// applied before additions so a day can be moved in one edit.
func stage(session *app.EditingSession, text, author string, add, remove []string) error {
	if err := session.SetText(text); err != nil {
		return err
	}

	if err := session.SetAuthor(author); err != nil {
		return err
	}

	for _, raw := range remove {
		day, err := parseDay(raw)
		if err != nil {
			return err
		}

		index := indexOfDay(session.Staged().Dates, day)
		if index < 0 {
			return domain.NewValidationError("date", raw+" is not scheduled")
		}

		if err := session.RemoveDate(index); err != nil {
			return err
		}
	}

	for _, raw := range add {
		day, err := parseDay(raw)
		if err != nil {
			return err
		}

		if err := session.AddDate(day); err != nil {
			return err
		}
	}

	return nil
}

// submit dispatches the staged quote and waits for the store to apply it.
func submit(ctx context.Context, session *app.EditingSession) (domain.Quote, error) {
	pending, err := session.Submit(ctx)
	if err != nil {
		return domain.Quote{}, err
	}

	return pending.Wait(ctx)
}

// parseDay parses a YYYY-MM-DD calendar day in UTC.
func parseDay(raw string) (time.Time, error) {
	day, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError("date", fmt.Sprintf("%q must be formatted as %s", raw, domain.DateLayout))
	}

	return day, nil
}

func indexOfDay(dates []time.Time, day time.Time) int {
	for i, d := range dates {
		if d.Equal(domain.CalendarDay(day)) {
			return i
		}
	}

	return -1
}
