// Package app provides the application context and dependency management
// for the gamelib CLI. It centralizes configuration, logging and the
// snapshot layout, and hands them to commands through appcontext.Interface.
package app

import (
	"context"
	"sync"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/gamelib/internal/appcontext"
	"github.com/agentstation/gamelib/internal/snapshot"
	"github.com/agentstation/gamelib/pkg/errors"
	"github.com/agentstation/gamelib/pkg/overrides"
)

// App represents the gamelib application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	clock  func() utc.Time

	// Override rules (lazy-initialized, loaded once)
	mu        sync.Mutex
	overrides *overrides.Resolver
}

var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and config file, and can be
// replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		clock:   utc.Now,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Now returns the current time from the app clock.
func (a *App) Now() utc.Time {
	return a.clock()
}

// Paths returns the snapshot layout: the data directory defaults, with any
// per-file paths from configuration applied on top.
func (a *App) Paths() snapshot.Paths {
	dataDir, err := snapshot.ExpandPath(a.config.DataDir)
	if err != nil {
		a.logger.Warn().Err(err).Str("data_dir", a.config.DataDir).Msg("Using data directory as given")
		dataDir = a.config.DataDir
	}

	p := snapshot.DefaultPaths(dataDir)
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&p.Records, a.config.RecordsPath},
		{&p.Overrides, a.config.OverridesPath},
		{&p.Catalog, a.config.CatalogPath},
		{&p.Owned, a.config.OwnedPath},
		{&p.Interest, a.config.InterestPath},
		{&p.Unavailable, a.config.UnavailablePath},
		{&p.Library, a.config.LibraryPath},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	return p
}

// Overrides returns the override rules, loading them on first use.
func (a *App) Overrides() (*overrides.Resolver, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.overrides != nil {
		return a.overrides, nil
	}

	path := a.Paths().Overrides
	resolver, err := overrides.Load(path)
	if err != nil {
		return nil, errors.NewConfigError("overrides", "cannot load "+path, err)
	}
	a.logger.Debug().
		Str("path", path).
		Int("force_merge", len(resolver.Rules().ForceMerge)).
		Int("property_overrides", len(resolver.Rules().PropertyOverrides)).
		Msg("Loaded override rules")

	a.overrides = resolver
	return resolver, nil
}

// Shutdown performs graceful shutdown of the application.
// The CLI holds no background work, so this only flushes a final log line.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutting down")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return &errors.ValidationError{Field: "config", Message: "cannot be nil"}
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClock sets the time source used to stamp unavailable titles.
func WithClock(clock func() utc.Time) Option {
	return func(a *App) error {
		a.clock = clock
		return nil
	}
}

// WithOverrides sets preloaded override rules (useful for testing).
func WithOverrides(resolver *overrides.Resolver) Option {
	return func(a *App) error {
		a.overrides = resolver
		return nil
	}
}
