package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/rostersync/internal/sources/brightspace"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	LoggerFunc           func() *zerolog.Logger
	OutputFormatFunc     func() string
	SettingsFunc         func() Settings
	BrightspaceFunc      func() brightspace.Config
	SaveRefreshTokenFunc func(token string) error
	VersionFunc          func() string
	CommitFunc           func() string
	DateFunc             func() string
	BuiltByFunc          func() string
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Settings returns settings using the mock function or DefaultSettings.
func (m *Mock) Settings() Settings {
	if m.SettingsFunc != nil {
		return m.SettingsFunc()
	}
	return DefaultSettings()
}

// Brightspace returns the client config using the mock function or an empty config.
func (m *Mock) Brightspace() brightspace.Config {
	if m.BrightspaceFunc != nil {
		return m.BrightspaceFunc()
	}
	return brightspace.Config{}
}

// SaveRefreshToken calls the mock function if set.
func (m *Mock) SaveRefreshToken(token string) error {
	if m.SaveRefreshTokenFunc != nil {
		return m.SaveRefreshTokenFunc(token)
	}
	return nil
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
