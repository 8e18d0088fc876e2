// Package appcontext provides the application context interface shared by
// all commands, so command packages depend on an interface rather than the
// concrete CLI application.
package appcontext

import (
	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/gamelib/internal/snapshot"
	"github.com/agentstation/gamelib/pkg/overrides"
)

// Interface defines what commands need from the application.
type Interface interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, wide).
	OutputFormat() string

	// Paths returns where snapshot files are read from and written to.
	Paths() snapshot.Paths

	// Overrides loads the override rules from the configured file.
	// A missing file yields an empty resolver.
	Overrides() (*overrides.Resolver, error)

	// Now returns the time used to stamp newly unavailable titles.
	Now() utc.Time

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
