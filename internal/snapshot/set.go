package snapshot

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/gamelib/pkg/constants"
	"github.com/agentstation/gamelib/pkg/errors"
	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/subscription"
)

// Paths locates each snapshot file.
type Paths struct {
	Records     string
	Overrides   string
	Catalog     string
	Owned       string
	Interest    string
	Unavailable string
	Library     string
}

// DefaultPaths returns the standard file layout under dataDir.
func DefaultPaths(dataDir string) Paths {
	return Paths{
		Records:     filepath.Join(dataDir, constants.RecordsFile),
		Overrides:   filepath.Join(dataDir, constants.OverridesFile),
		Catalog:     filepath.Join(dataDir, constants.CatalogFile),
		Owned:       filepath.Join(dataDir, constants.OwnedFile),
		Interest:    filepath.Join(dataDir, constants.InterestFile),
		Unavailable: filepath.Join(dataDir, constants.UnavailableFile),
		Library:     filepath.Join(dataDir, constants.LibraryFile),
	}
}

// Set is everything a reconciliation run reads from disk, except overrides,
// which are loaded by the overrides package.
type Set struct {
	Records          []library.RawRecord
	Catalog          []subscription.CatalogEntry
	Owned            []string
	Interest         []string
	PriorUnavailable []subscription.UnavailableEntry

	// Baseline is the previously written library, nil on the first run.
	Baseline []library.CanonicalRecord
}

// Load reads every snapshot named by p. Only the records are required.
func Load(p Paths) (*Set, error) {
	var (
		s   Set
		err error
	)
	if s.Records, err = LoadRecords(p.Records); err != nil {
		return nil, err
	}
	if s.Catalog, err = LoadCatalog(p.Catalog); err != nil {
		return nil, err
	}
	if s.Owned, err = LoadTitles(p.Owned); err != nil {
		return nil, err
	}
	if s.Interest, err = LoadTitles(p.Interest); err != nil {
		return nil, err
	}
	if s.PriorUnavailable, err = LoadUnavailable(p.Unavailable); err != nil {
		return nil, err
	}
	if s.Baseline, err = LoadLibrary(p.Library); err != nil {
		return nil, err
	}
	return &s, nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewConfigError("data-dir", "cannot resolve home directory", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
