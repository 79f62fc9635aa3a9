// Package app provides the application context and dependency management
// for the rostersync CLI: configuration, logging and the command tree.
package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/rostersync/internal/cmd/application"
	"github.com/agentstation/rostersync/internal/sources/brightspace"
	"github.com/agentstation/rostersync/pkg/errors"
)

// App represents the rostersync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
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

// OutputFormat returns the --format value, empty for auto detection.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Settings returns the configured conversion defaults.
func (a *App) Settings() application.Settings {
	return a.config.Settings
}

// Brightspace returns the configured Data Hub credentials.
func (a *App) Brightspace() brightspace.Config {
	return a.config.Brightspace
}

// SaveRefreshToken persists a rotated refresh token.
func (a *App) SaveRefreshToken(token string) error {
	if err := a.config.SaveRefreshToken(token); err != nil {
		return err
	}
	a.logger.Debug().Str("file", a.config.ConfigFile).Msg("Saved refresh token")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
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

var _ application.Application = (*App)(nil)
