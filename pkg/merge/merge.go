// Package merge collapses a group of raw records into one canonical record.
//
// Metadata comes from the highest-priority contributor, aggregates are
// summed or maximized across all contributors, and owning a game on the
// owned platform hides the redundant subscription tag.
package merge

import (
	"slices"

	"github.com/agentstation/utc"

	"github.com/agentstation/gamelib/pkg/constants"
	"github.com/agentstation/gamelib/pkg/errors"
	"github.com/agentstation/gamelib/pkg/identity"
	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/normalize"
	"github.com/agentstation/gamelib/pkg/overrides"
	"github.com/agentstation/gamelib/pkg/sources"
)

// Merge builds the canonical record for a group. It fails with an
// *errors.EmptyGroupError when the group is empty; any non-empty group
// merges successfully. The resolver may be nil.
func Merge(group []library.RawRecord, resolver *overrides.Resolver) (library.CanonicalRecord, error) {
	if len(group) == 0 {
		return library.CanonicalRecord{}, errors.NewEmptyGroupError("")
	}

	sorted := ByPriority(group)
	primary := sorted[0]

	rec := library.CanonicalRecord{
		CanonicalID:     canonicalID(sorted),
		Title:           primary.Title,
		PrimarySource:   primary.Source,
		OwnedSources:    ownedSources(sorted),
		NativeNumericID: nativeID(sorted),
		TotalHours:      totalHours(sorted),
		LastPlayedAt:    lastPlayed(sorted),
		CoverImageURL:   primary.CoverImageURL,
		ReleaseDate:     primary.ReleaseDate,
		Genres:          slices.Clone(primary.Genres),
		Contributors:    contributors(sorted),
	}

	// Only the first two contributors are checked against the rules.
	if len(sorted) > 1 {
		if name, ok := resolver.ResolveForcedMerge(sorted[0].Title, sorted[1].Title); ok {
			rec.Title = name
		}
	}

	return rec, nil
}

// ProcessRawRecords groups records and merges every group, in group order.
func ProcessRawRecords(records []library.RawRecord, resolver *overrides.Resolver) ([]library.CanonicalRecord, error) {
	groups := identity.Group(records, resolver)
	out := make([]library.CanonicalRecord, 0, len(groups))
	for _, g := range groups {
		rec, err := Merge(g.Records, resolver)
		if err != nil {
			return nil, errors.NewMergeError(g.Key, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ByPriority returns a copy of records stably sorted by source priority.
func ByPriority(records []library.RawRecord) []library.RawRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b library.RawRecord) int {
		return sources.Compare(a.Source, b.Source)
	})
	return sorted
}

// ownedSources lists distinct sources in priority order, dropping the
// subscription tag when the owned platform is present.
func ownedSources(sorted []library.RawRecord) []sources.Type {
	owned := make([]sources.Type, 0, len(sorted))
	for _, r := range sorted {
		if !slices.Contains(owned, r.Source) {
			owned = append(owned, r.Source)
		}
	}
	if slices.Contains(owned, sources.Owned) {
		owned = slices.DeleteFunc(owned, func(s sources.Type) bool {
			return s == sources.Subscription
		})
	}
	return owned
}

// canonicalID prefers the primary's native ID, then the highest-priority
// contributor with one, then the primary title slug.
func canonicalID(sorted []library.RawRecord) string {
	for _, r := range sorted {
		if r.HasNativeID() {
			return identity.NativeKey(r.Source, *r.NativeNumericID)
		}
	}
	if slug := normalize.Slugify(sorted[0].Title); slug != "" {
		return slug
	}
	return constants.UntitledKey
}

func nativeID(sorted []library.RawRecord) *int64 {
	for _, r := range sorted {
		if r.HasNativeID() {
			id := *r.NativeNumericID
			return &id
		}
	}
	return nil
}

// totalHours is nil rather than zero when nothing was played.
func totalHours(sorted []library.RawRecord) *float64 {
	total := library.TotalHours(sorted)
	if total == 0 {
		return nil
	}
	return &total
}

func lastPlayed(sorted []library.RawRecord) *utc.Time {
	var latest *utc.Time
	for _, r := range sorted {
		if r.LastPlayedAt == nil {
			continue
		}
		if latest == nil || r.LastPlayedAt.Time.After(latest.Time) {
			at := *r.LastPlayedAt
			latest = &at
		}
	}
	return latest
}

func contributors(sorted []library.RawRecord) []library.Contributor {
	out := make([]library.Contributor, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, library.Contributor{
			Source:     r.Source,
			ExternalID: r.ExternalID,
			Title:      r.Title,
		})
	}
	return out
}
