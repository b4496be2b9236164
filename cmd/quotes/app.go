package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/quote-scheduler/internal/adapters/clients"
	"github.com/jsamuelsen/quote-scheduler/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-scheduler/internal/adapters/journal"
	"github.com/jsamuelsen/quote-scheduler/internal/app"
	"github.com/jsamuelsen/quote-scheduler/internal/platform/config"
	"github.com/jsamuelsen/quote-scheduler/internal/platform/logging"
	"github.com/jsamuelsen/quote-scheduler/internal/platform/metrics"
	"github.com/jsamuelsen/quote-scheduler/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-scheduler/internal/ports"
)

// App holds the wired application shared by every command.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Clock   clockwork.Clock
	Out     io.Writer
	Service *app.QuoteService
	Session *app.EditingSession
	Store   *app.QuoteStore
	Health  *ports.HealthRegistry
	Metrics *metrics.PrometheusRecorder

	// Journal is nil when the resolution journal is disabled.
	Journal *journal.SQLiteJournal

	closers []func(context.Context) error
}

// newApp loads configuration and wires the layers together:
// config → logging → telemetry → HTTP client → ACL gateway → store → session → service.
func newApp(ctx context.Context, cli *CLI, stdin io.Reader, stdout, stderr io.Writer) (*App, error) {
	// 1. Load and validate configuration (fail fast)
	cfg, err := config.LoadFrom(cli.ConfigDir, cli.Profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cli.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// 2. Initialize logging
	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			Level:      cfg.Log.File.Level,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, stderr)
	logging.SetDefault(logger)

	a := &App{
		Config: cfg,
		Logger: logger,
		Clock:  clockwork.NewRealClock(),
		Out:    stdout,
	}

	// 3. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	a.closers = append(a.closers, telProvider.Shutdown)

	// 4. Create HTTP client for the quote API
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Quote.BaseURL,
		ServiceName: cfg.Services.Quote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		AuthFunc:    bearerAuth(cfg.Services.Quote.Token),
		Logger:      logger,
		Clock:       a.Clock,
	})
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	// 5. Create the quote gateway (ACL pattern) and register it as a health check
	gateway := acl.NewQuoteGateway(acl.QuoteGatewayConfig{
		Client: httpClient,
		Logger: logger,
	})

	a.Health = ports.NewHealthRegistry(cfg.Client.Timeout)
	if err := a.Health.Register(gateway); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("registering quote gateway health check: %w", err)
	}

	// 6. Open the resolution journal when enabled
	a.Metrics = metrics.NewPrometheusRecorder(nil)

	storeCfg := app.QuoteStoreConfig{
		Gateway:  gateway,
		Recorder: a.Metrics,
		Logger:   logger,
		Clock:    a.Clock,
	}

	if cfg.Journal.Enabled {
		a.Journal, err = journal.Open(cfg.Journal.Path)
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("opening journal: %w", err)
		}

		a.closers = append(a.closers, func(context.Context) error { return a.Journal.Close() })
		storeCfg.Journal = a.Journal
	}

	// 7. Create the application layer
	a.Store = app.NewQuoteStore(storeCfg)
	a.closers = append(a.closers, func(context.Context) error {
		a.Store.Close()
		return nil
	})

	presenter := newTerminalPresenter(stdout, logger)
	navigator := app.NewNavigator(presenter)

	a.Session = app.NewEditingSession(app.EditingSessionConfig{
		Store:           a.Store,
		Navigator:       navigator,
		Presenter:       presenter,
		Clock:           a.Clock,
		NavigationDelay: cfg.Session.NavigationDelay,
		Logger:          logger,
	})

	a.Service = app.NewQuoteService(app.QuoteServiceConfig{
		Store:     a.Store,
		Session:   a.Session,
		Navigator: navigator,
		Confirmer: newTerminalConfirmer(stdin, stdout, cli.Yes),
		Logger:    logger,
	})

	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.Logger.Error("shutdown error", slog.Any("error", err))
		}
	}

	a.closers = nil
}

// bearerAuth returns an AuthFunc sending token, or nil when token is empty.
func bearerAuth(token string) func(*http.Request) {
	if token == "" {
		return nil
	}

	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// newLineReader wraps stdin for prompt answers.
func newLineReader(r io.Reader) *bufio.Reader {
	if r == nil {
		return nil
	}

	return bufio.NewReader(r)
}
