package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/explorer/internal/config"
	"github.com/five82/explorer/internal/fetch"
	"github.com/five82/explorer/internal/logging"
	"github.com/five82/explorer/internal/metrics"
	"github.com/five82/explorer/internal/nasa"
	"github.com/five82/explorer/internal/prefs"
	"github.com/five82/explorer/internal/server"
	"github.com/five82/explorer/internal/state"
	"github.com/five82/explorer/internal/ui"
)

// Mode selects how the application presents itself.
type Mode int

const (
	// ModeTUI owns the terminal; logs go to the configured file.
	ModeTUI Mode = iota
	// ModeServe runs the HTTP server; logs go to stderr.
	ModeServe
	// ModeFetch runs a single cycle; logs go to stderr.
	ModeFetch
)

// Options configure the explorer application. Empty fields fall back to the
// config file, then to built-in defaults.
type Options struct {
	Mode       Mode
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/explorer/prefs.toml
	APIKey     string
	LogLevel   string
	Rover      string
	Sol        int
	Listen     string
	LogWriter  io.Writer // stderr when nil; ignored in ModeTUI
	UserAgent  string
}

// App holds the wired components for one process.
type App struct {
	cfg       config.Config
	prefs     prefs.Prefs
	prefsPath string
	logs      *logging.Result
	logger    zerolog.Logger
	client    *nasa.Client
	store     *state.Store
	orch      *fetch.Orchestrator
}

// New loads configuration, applies option overrides, and wires the client,
// store, and orchestrator.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		return nil, err
	}

	logCfg := logging.Config{Level: cfg.LogLevel, Format: logging.FormatConsole, Writer: opts.LogWriter}
	if opts.Mode == ModeTUI {
		logCfg.Format = logging.FormatJSON
		logCfg.File = cfg.LogFile
		logCfg.Writer = io.Discard
	}
	logs, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	logger := logs.Logger

	clientOpts := []nasa.Option{
		nasa.WithObserver(observeUpstream(logging.Component(logger, "api"))),
	}
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		clientOpts = append(clientOpts, nasa.WithUserAgent(ua))
	}
	client, err := nasa.NewClient(cfg.APIBase, cfg.KeyOrDemo(), clientOpts...)
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("init nasa client: %w", err)
	}
	if client.UsingDemoKey() {
		logger.Warn().Msg("using DEMO_KEY; requests are heavily rate limited")
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)
	params := initialParams(opts, cfg, userPrefs)
	store := state.NewStore(params)

	a := &App{
		cfg:       cfg,
		prefs:     userPrefs,
		prefsPath: opts.PrefsPath,
		logs:      logs,
		logger:    logger,
		client:    client,
		store:     store,
		orch:      fetch.New(client, store, fetch.WithLogger(logging.Component(logger, "fetch"))),
	}
	return a, nil
}

func applyOverrides(cfg *config.Config, opts Options) error {
	if key := strings.TrimSpace(opts.APIKey); key != "" {
		cfg.APIKey = key
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.LogLevel = level
	}
	if listen := strings.TrimSpace(opts.Listen); listen != "" {
		cfg.Listen = listen
	}
	if strings.TrimSpace(opts.Rover) != "" {
		rover, err := nasa.ParseRover(opts.Rover)
		if err != nil {
			return err
		}
		cfg.Rover = rover
	}
	if opts.Sol != 0 {
		cfg.Sol = opts.Sol
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// initialParams picks the first cycle's params. Explicit options win, then
// the TUI's remembered selection, then the config.
func initialParams(opts Options, cfg config.Config, p prefs.Prefs) state.Params {
	params := state.Params{Rover: cfg.Rover, Sol: cfg.Sol}
	if opts.Mode != ModeTUI {
		return params
	}
	if strings.TrimSpace(opts.Rover) == "" && p.Rover != "" {
		params.Rover = p.Rover
	}
	if opts.Sol == 0 && p.Sol > 0 {
		params.Sol = p.Sol
	}
	return params
}

func observeUpstream(log zerolog.Logger) nasa.Observer {
	return func(endpoint nasa.Endpoint, elapsed time.Duration, err error) {
		reason := nasa.Classify(err)
		metrics.ObserveUpstream(string(endpoint), reason.String(), elapsed)
		log.Debug().
			Err(err).
			Str("endpoint", string(endpoint)).
			Str("outcome", reason.String()).
			Dur("elapsed", elapsed).
			Msg("upstream request")
	}
}

// Config returns the effective configuration.
func (a *App) Config() config.Config { return a.cfg }

// Store returns the shared state store.
func (a *App) Store() *state.Store { return a.store }

// Logger returns the root logger.
func (a *App) Logger() zerolog.Logger { return a.logger }

// ArchiveURL derives EPIC image URLs with the configured key.
func (a *App) ArchiveURL(img nasa.EPICImage) (string, error) {
	return a.client.ArchiveURL(img)
}

// Close releases the log file, if any.
func (a *App) Close() error {
	return a.logs.Close()
}

// FetchOnce runs one cycle with the store's current params.
func (a *App) FetchOnce(ctx context.Context) fetch.Report {
	return a.orch.Run(ctx, a.store.Begin())
}

// RunTUI boots the terminal UI until the user quits or ctx is cancelled.
func (a *App) RunTUI(ctx context.Context) error {
	a.logger.Info().
		Str("rover", string(a.store.Params().Rover)).
		Int("sol", a.store.Params().Sol).
		Msg("starting tui")

	err := ui.Run(ui.Options{
		Context:    ctx,
		Store:      a.store,
		Runner:     a.orch,
		ArchiveURL: a.client.ArchiveURL,
		Prefs:      a.prefs,
		PrefsPath:  a.prefsPath,
		LogPath:    a.logs.FilePath,
		Logger:     logging.Component(a.logger, "ui"),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// Serve runs the HTTP server until ctx is cancelled. An initial cycle starts
// immediately; in-flight cycles are awaited before returning.
func (a *App) Serve(ctx context.Context) error {
	log := logging.Component(a.logger, "serve")
	dispatcher := NewDispatcher(ctx, a.orch, func(r fetch.Report) {
		if failed := r.Failed(); len(failed) > 0 {
			log.Debug().Uint64("cycle_id", r.Cycle).Strs("failed", failed).Msg("cycle had failures")
		}
	})
	srv := server.New(a.cfg.Listen, a.store, dispatcher,
		server.WithLogger(logging.Component(a.logger, "http")),
		server.WithArchiveURL(a.client.ArchiveURL),
	)

	dispatcher.Dispatch(a.store.Begin())
	err := srv.Run(ctx)
	dispatcher.Wait()
	return err
}
