// Package constants provides shared constants used throughout the gamelib codebase.
// This includes match thresholds, the edition-qualifier vocabulary, snapshot
// file names, and file permissions that should be consistent across the application.
package constants

// Similarity thresholds used by identity matching and the suggestion report.
const (
	// MatchThreshold is the lowest similarity treated as "likely the same game".
	MatchThreshold = 0.85

	// SubstringScore is the similarity assigned when one long title contains the other.
	SubstringScore = 0.95

	// SubstringMinLength is the minimum normalized length (in runes) of both titles
	// before the substring rule applies.
	SubstringMinLength = 10

	// VeryHighSimilarity is the lower bound of the "minor variation" suggestion band.
	VeryHighSimilarity = 0.90

	// ExactMatch is the similarity of two titles that normalize identically.
	ExactMatch = 1.0
)

// Suggestion reasons, selected by similarity band.
const (
	ReasonEditionVariant  = "substring/edition variant"
	ReasonMinorVariation  = "very high similarity / minor variation"
	ReasonPossiblyRelated = "high similarity / possibly related"
)

// Unavailable-report reasons.
const (
	ReasonInterestUnavailable = "interest-unavailable"
	ReasonLeftCatalog         = "left-catalog"
)

// Articles removed as whole words during normalization.
var Articles = []string{"the", "a", "an"}

// EditionQualifiers are removed as whole words during normalization.
// Multi-word phrases are listed before their single-word parts.
var EditionQualifiers = []string{
	"game of the year",
	"director's cut",
	"goty",
	"edition",
	"definitive",
	"complete",
	"enhanced",
	"remastered",
}

// UntitledKey is used when a title normalizes to nothing.
const UntitledKey = "untitled"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Snapshot file names, resolved relative to the data directory.
const (
	RecordsFile     = "records.json"
	OverridesFile   = "overrides.yaml"
	CatalogFile     = "gamepass-catalog.json"
	OwnedFile       = "owned.json"
	InterestFile    = "interest.json"
	UnavailableFile = "unavailable.json"
	LibraryFile     = "library.json"
	ProvenanceFile  = "provenance.yaml"
)

// Path constants
const (
	// DefaultDataDir is the default directory holding snapshot files.
	DefaultDataDir = "~/.gamelib"

	// ConfigFileName is the config file name searched in $HOME and the working directory.
	ConfigFileName = ".gamelib"
)
