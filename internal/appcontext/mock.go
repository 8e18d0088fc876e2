package appcontext

import (
	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/gamelib/internal/snapshot"
	"github.com/agentstation/gamelib/pkg/overrides"
)

// Mock provides a mock implementation of Interface for testing.
// Unset function fields fall back to zero values, except Overrides, which
// loads from Paths().Overrides like the real application.
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	PathsFunc        func() snapshot.Paths
	OverridesFunc    func() (*overrides.Resolver, error)
	NowFunc          func() utc.Time
	VersionFunc      func() string
}

var _ Interface = (*Mock)(nil)

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Paths returns snapshot paths using the mock function or the current directory layout.
func (m *Mock) Paths() snapshot.Paths {
	if m.PathsFunc != nil {
		return m.PathsFunc()
	}
	return snapshot.DefaultPaths(".")
}

// Overrides returns a resolver using the mock function or the paths' overrides file.
func (m *Mock) Overrides() (*overrides.Resolver, error) {
	if m.OverridesFunc != nil {
		return m.OverridesFunc()
	}
	return overrides.Load(m.Paths().Overrides)
}

// Now returns the mock time or the zero time.
func (m *Mock) Now() utc.Time {
	if m.NowFunc != nil {
		return m.NowFunc()
	}
	return utc.Time{}
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "unknown".
func (m *Mock) BuiltBy() string { return "unknown" }
