// Package differ compares a previously synced library with a freshly
// reconciled one. The resulting changeset is what a sync client applies to
// the external store.
package differ

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/gamelib/pkg/library"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates a record was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates a record was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates a record was removed.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific field.
type FieldChange struct {
	Path     string     `json:"path" yaml:"path"` // Field name (e.g., "totalHours")
	OldValue string     `json:"old" yaml:"old"`   // Previous value (string representation)
	NewValue string     `json:"new" yaml:"new"`   // New value (string representation)
	Type     ChangeType `json:"type" yaml:"type"` // Type of change
}

// RecordUpdate represents an update to an existing canonical record.
type RecordUpdate struct {
	ID       string                  `json:"canonicalId" yaml:"canonicalId"`
	Existing library.CanonicalRecord `json:"-" yaml:"-"`
	New      library.CanonicalRecord `json:"-" yaml:"-"`
	Changes  []FieldChange           `json:"changes" yaml:"changes"`
}

// Changeset represents all changes between two libraries.
type Changeset struct {
	Added   []library.CanonicalRecord `json:"added" yaml:"added"`
	Updated []RecordUpdate            `json:"updated" yaml:"updated"`
	Removed []library.CanonicalRecord `json:"removed" yaml:"removed"`
	Summary ChangesetSummary          `json:"summary" yaml:"summary"`
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	Added        int `json:"added" yaml:"added"`
	Updated      int `json:"updated" yaml:"updated"`
	Removed      int `json:"removed" yaml:"removed"`
	TotalChanges int `json:"total" yaml:"total"`
}

func calculateSummary(c *Changeset) ChangesetSummary {
	return ChangesetSummary{
		Added:        len(c.Added),
		Updated:      len(c.Updated),
		Removed:      len(c.Removed),
		TotalChanges: len(c.Added) + len(c.Updated) + len(c.Removed),
	}
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return !c.HasChanges()
}

// String returns a one-line summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}

	var parts []string
	if len(c.Added) > 0 {
		parts = append(parts, fmt.Sprintf("%d added", len(c.Added)))
	}
	if len(c.Updated) > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", len(c.Updated)))
	}
	if len(c.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", len(c.Removed)))
	}

	return fmt.Sprintf("Changeset: %s (Total: %d changes)", strings.Join(parts, ", "), c.Summary.TotalChanges)
}

// Print writes a detailed view of the changeset to w.
func (c *Changeset) Print(w io.Writer) {
	fmt.Fprintln(w, c.String())
	if c.IsEmpty() {
		return
	}
	fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, rec := range c.Added {
		fmt.Fprintf(w, "  + %s (%s)\n", rec.CanonicalID, rec.Title)
	}
	for _, update := range c.Updated {
		fmt.Fprintf(w, "  ~ %s (%s)\n", update.ID, update.New.Title)
		for _, change := range update.Changes {
			fmt.Fprintf(w, "      %s: %s → %s\n", change.Path, change.OldValue, change.NewValue)
		}
	}
	for _, rec := range c.Removed {
		fmt.Fprintf(w, "  - %s (%s)\n", rec.CanonicalID, rec.Title)
	}
}

// ApplyStrategy selects which kinds of changes a sync applies.
type ApplyStrategy string

const (
	// ApplyAll applies every change.
	ApplyAll ApplyStrategy = "all"
	// ApplyAdditive applies additions and updates, never removals.
	ApplyAdditive ApplyStrategy = "additive"
	// ApplyUpdatesOnly applies updates to existing records only.
	ApplyUpdatesOnly ApplyStrategy = "updates-only"
	// ApplyAdditionsOnly applies new records only.
	ApplyAdditionsOnly ApplyStrategy = "additions-only"
)

// Filter filters the changeset based on the apply strategy.
func (c *Changeset) Filter(strategy ApplyStrategy) *Changeset {
	filtered := &Changeset{}

	switch strategy {
	case ApplyAll:
		return c
	case ApplyAdditive:
		filtered.Added = c.Added
		filtered.Updated = c.Updated
	case ApplyUpdatesOnly:
		filtered.Updated = c.Updated
	case ApplyAdditionsOnly:
		filtered.Added = c.Added
	}

	filtered.Summary = calculateSummary(filtered)
	return filtered
}
