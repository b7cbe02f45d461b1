package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/aussiebroadwan/libris/internal/library/navigation"
	"github.com/aussiebroadwan/libris/internal/library/store"
	"github.com/aussiebroadwan/libris/pkg/cryptox"
	"github.com/aussiebroadwan/libris/pkg/httpx"
	"github.com/aussiebroadwan/libris/pkg/librarysdk"
	"github.com/aussiebroadwan/libris/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the token store, the API client and the navigator for
// one terminal invocation.
type Application struct {
	cfg    Config
	logger *slog.Logger
	out    io.Writer

	store    librarysdk.TokenStore
	registry *prometheus.Registry
	client   *librarysdk.Client
	session  *librarysdk.Session
	host     *terminalHost
	nav      *navigation.Controller
}

// New creates an Application that prints to stdout and logs to stderr.
func New(cfg Config) (*Application, error) {
	return newApplication(context.Background(), cfg, os.Stdout, os.Stderr)
}

func newApplication(ctx context.Context, cfg Config, out, logOut io.Writer) (*Application, error) {
	app := &Application{
		cfg: cfg,
		out: out,
		logger: slogx.New(slogx.Config{
			Service: "libris",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  logOut,
		}),
	}

	if err := app.initStore(ctx); err != nil {
		return nil, err
	}
	app.initClient()
	app.initNavigation()

	return app, nil
}

// Run executes one command.
func (app *Application) Run(ctx context.Context, args []string) error {
	ctx = slogx.WithContext(ctx, app.logger)
	return app.dispatch(ctx, args)
}

// Close dumps the session counters when configured and closes the store.
func (app *Application) Close() error {
	var errs []error

	if app.cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(app.cfg.MetricsFile, app.registry); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		}
	}

	if err := app.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close token store: %w", err))
	}

	return errors.Join(errs...)
}

// initStore opens the configured driver, sealing values when a master key
// is available.
func (app *Application) initStore(ctx context.Context) error {
	cfg := store.Config{
		Driver:      app.cfg.StoreDriver,
		File:        app.cfg.StoreFile,
		RedisAddr:   app.cfg.RedisAddr,
		RedisPrefix: app.cfg.RedisPrefix,
	}

	master, err := cryptox.LoadMasterKey(app.cfg.MasterKeyPath, app.cfg.MasterKey)
	switch {
	case errors.Is(err, cryptox.ErrNoMasterKey):
		app.logger.Debug("no master key configured, session values stored unsealed")
	case err != nil:
		return fmt.Errorf("failed to load master key: %w", err)
	default:
		sealer, err := cryptox.NewSealer(master)
		if err != nil {
			return fmt.Errorf("failed to derive sealing key: %w", err)
		}
		cfg.Sealer = sealer
	}

	s, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open token store: %w", err)
	}
	app.store = s

	app.logger.Debug("token store opened", "driver", cfg.Driver, "sealed", cfg.Sealer != nil)
	return nil
}

// initClient builds the transport chain and the API client.
func (app *Application) initClient() {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.MaxIdleConnsPerHost = max(app.cfg.MaxIdleConns, 1)

	transport := httpx.Chain(base, app.cfg.RateLimit, func(rt http.RoundTripper) http.RoundTripper {
		return &slogx.Transport{Base: rt, Logger: app.logger}
	})

	app.registry = prometheus.NewRegistry()

	app.client = librarysdk.NewClient(app.cfg.APIURL, app.store)
	app.client.HTTPClient = &http.Client{
		Timeout:   app.cfg.HTTPTimeout,
		Transport: transport,
	}
	app.client.Logger = app.logger
	app.client.Metrics = librarysdk.NewMetrics(app.registry)

	app.session = app.client.Session()
}

func (app *Application) initNavigation() {
	app.host = &terminalHost{logger: app.logger}
	app.nav = navigation.New(app.session, app.client, app.host, app.logger)
}
