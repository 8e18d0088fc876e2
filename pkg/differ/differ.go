package differ

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/sources"
)

// Differ handles change detection between libraries.
type Differ interface {
	// Libraries compares two libraries and returns changes, matching records
	// by canonical ID.
	Libraries(existing, updated []library.CanonicalRecord) *Changeset
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreFields map[string]bool
}

// New creates a Differ.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreFields: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Diff compares two libraries with default settings.
func Diff(existing, updated []library.CanonicalRecord) *Changeset {
	return New().Libraries(existing, updated)
}

// Libraries compares two libraries and returns changes.
func (diff *differ) Libraries(existing, updated []library.CanonicalRecord) *Changeset {
	changeset := &Changeset{
		Added:   []library.CanonicalRecord{},
		Updated: []RecordUpdate{},
		Removed: []library.CanonicalRecord{},
	}

	existingMap := library.Library(existing).ByID()
	newMap := library.Library(updated).ByID()

	for _, rec := range updated {
		if prev, exists := existingMap[rec.CanonicalID]; exists {
			if update := diff.record(prev, rec); update != nil {
				changeset.Updated = append(changeset.Updated, *update)
			}
		} else {
			changeset.Added = append(changeset.Added, rec)
		}
	}

	for _, rec := range existing {
		if _, exists := newMap[rec.CanonicalID]; !exists {
			changeset.Removed = append(changeset.Removed, rec)
		}
	}

	sortChangeset(changeset)
	changeset.Summary = calculateSummary(changeset)

	return changeset
}

// record compares two versions of a record and returns an update if they differ.
func (diff *differ) record(existing, updated library.CanonicalRecord) *RecordUpdate {
	fields := []struct {
		path     string
		old, new string
	}{
		{"title", existing.Title, updated.Title},
		{"primarySource", existing.PrimarySource.String(), updated.PrimarySource.String()},
		{"ownedSources", joinSources(existing.OwnedSources), joinSources(updated.OwnedSources)},
		{"totalHours", formatHours(existing.TotalHours), formatHours(updated.TotalHours)},
		{"lastPlayedAt", formatTime(existing.LastPlayedAt), formatTime(updated.LastPlayedAt)},
		{"coverImageUrl", existing.CoverImageURL, updated.CoverImageURL},
		{"releaseDate", existing.ReleaseDate, updated.ReleaseDate},
		{"genres", strings.Join(existing.Genres, ", "), strings.Join(updated.Genres, ", ")},
	}

	changes := []FieldChange{}
	for _, f := range fields {
		if f.old == f.new || diff.ignoreFields[f.path] {
			continue
		}
		changes = append(changes, FieldChange{
			Path:     f.path,
			OldValue: f.old,
			NewValue: f.new,
			Type:     changeType(f.old, f.new),
		})
	}

	if len(changes) == 0 {
		return nil
	}

	return &RecordUpdate{
		ID:       existing.CanonicalID,
		Existing: existing,
		New:      updated,
		Changes:  changes,
	}
}

func changeType(old, updated string) ChangeType {
	switch {
	case old == "":
		return ChangeTypeAdd
	case updated == "":
		return ChangeTypeRemove
	default:
		return ChangeTypeUpdate
	}
}

func sortChangeset(changeset *Changeset) {
	byID := func(a, b library.CanonicalRecord) int {
		return strings.Compare(a.CanonicalID, b.CanonicalID)
	}
	slices.SortFunc(changeset.Added, byID)
	slices.SortFunc(changeset.Removed, byID)
	slices.SortFunc(changeset.Updated, func(a, b RecordUpdate) int {
		return strings.Compare(a.ID, b.ID)
	})
}

func joinSources(srcs []sources.Type) string {
	names := make([]string, 0, len(srcs))
	for _, s := range srcs {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}

func formatHours(hours *float64) string {
	if hours == nil {
		return ""
	}
	return strconv.FormatFloat(*hours, 'f', -1, 64)
}

func formatTime(t *utc.Time) string {
	if t == nil {
		return ""
	}
	return t.Time.Format(time.RFC3339)
}

// Describe renders a field change for logs.
func (f FieldChange) Describe() string {
	return fmt.Sprintf("%s: %q → %q", f.Path, f.OldValue, f.NewValue)
}
