// Package reconciler composes the reconciliation engine: subscription
// eligibility, identity grouping, merging, property overrides, merge
// suggestions and change detection against a previously synced library.
//
// The engine is synchronous and performs no I/O. The context only carries
// the logger.
//
// Example usage:
//
//	r, err := reconciler.New(
//	    reconciler.WithOverrides(resolver),
//	    reconciler.WithBaseline(previous),
//	)
//	if err != nil {
//	    return err
//	}
//	result, err := r.Reconcile(ctx, reconciler.Input{Records: records})
package reconciler

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/gamelib/pkg/differ"
	"github.com/agentstation/gamelib/pkg/errors"
	"github.com/agentstation/gamelib/pkg/identity"
	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/logging"
	"github.com/agentstation/gamelib/pkg/merge"
	"github.com/agentstation/gamelib/pkg/overrides"
	"github.com/agentstation/gamelib/pkg/provenance"
	"github.com/agentstation/gamelib/pkg/subscription"
	"github.com/agentstation/gamelib/pkg/suggest"
)

// Input is the complete snapshot for one run. Callers must not modify it
// while Reconcile runs.
type Input struct {
	Records          []library.RawRecord
	Catalog          []subscription.CatalogEntry
	Owned            []string
	Interest         []string
	PriorUnavailable []subscription.UnavailableEntry

	// Now stamps newly unavailable titles; zero leaves them unstamped.
	Now utc.Time
}

// Reconciler is the main interface for reconciling game records.
type Reconciler interface {
	// Reconcile builds the canonical library from raw records.
	Reconcile(ctx context.Context, in Input) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	resolver    *overrides.Resolver
	tracking    bool
	suggestions bool
	baseline    []library.CanonicalRecord
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &reconciler{
		resolver:    options.resolver,
		tracking:    options.tracking,
		suggestions: options.suggestions,
		baseline:    options.baseline,
	}, nil
}

// Reconcile performs reconciliation step by step.
func (r *reconciler) Reconcile(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	ctx = logging.WithOperation(ctx, "reconcile")
	logger := logging.FromContext(ctx)

	// Step 1: Validate input records
	warnings, err := Validate(in.Records)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Warn().Msg(w)
	}

	// Step 2: Decide which subscription titles belong in the library
	eligibility := subscription.Resolve(subscription.Input{
		Records:          in.Records,
		Catalog:          in.Catalog,
		Owned:            in.Owned,
		Interest:         in.Interest,
		PriorUnavailable: in.PriorUnavailable,
		Now:              in.Now,
	})
	logger.Debug().
		Int("to_sync", len(eligibility.ToSync)).
		Int("unavailable", len(eligibility.Unavailable)).
		Int("returned", len(eligibility.Returned)).
		Msg("Resolved subscription eligibility")
	for _, title := range eligibility.Returned {
		logger.Info().Str("title", title).Msg("Title returned to subscription catalog")
	}

	// Step 3: Group and merge
	tracker := provenance.NewTracker(r.tracking)
	lib, groups, err := r.merge(ctx, eligibility.ToSync, tracker)
	if err != nil {
		return nil, err
	}

	// Step 4: Property overrides
	for i := range lib {
		lib[i] = r.resolver.ApplyPropertyOverrides(lib[i])
	}

	duplicates := duplicateIDs(lib)
	for _, id := range slices.Sorted(maps.Keys(duplicates)) {
		n := duplicates[id]
		msg := fmt.Sprintf("canonical id %q shared by %d records", id, n)
		warnings = append(warnings, msg)
		logger.Warn().Str("canonical_id", id).Int("count", n).Msg("Duplicate canonical id")
	}

	// Step 5: Suggestions run over every raw record, independently of merging
	var suggestions []suggest.Suggestion
	if r.suggestions {
		suggestions = suggest.Suggest(in.Records)
	}

	// Step 6: Compare against baseline
	changeset := r.changeset(logger, lib)

	end := time.Now()
	result := &Result{
		Library:     lib,
		Unavailable: eligibility.Unavailable,
		Returned:    eligibility.Returned,
		Decisions:   eligibility.Decisions,
		Suggestions: suggestions,
		Changeset:   changeset,
		Provenance:  tracker.Map(),
		Warnings:    warnings,
		Metadata: ResultMetadata{
			StartTime: start,
			EndTime:   end,
			Duration:  end.Sub(start),
			Stats: ResultStatistics{
				RawRecords:   len(in.Records),
				Eligible:     len(eligibility.ToSync),
				Withheld:     withheld(eligibility.Decisions),
				Groups:       len(groups),
				Merged:       len(eligibility.ToSync) - len(groups),
				Suggestions:  len(suggestions),
				DuplicateIDs: len(duplicates),
			},
		},
	}

	logger.Info().
		Int("records", result.Metadata.Stats.RawRecords).
		Int("games", len(lib)).
		Int("suggestions", len(suggestions)).
		Dur("duration", result.Metadata.Duration).
		Msg("Reconciliation complete")

	return result, nil
}

func (r *reconciler) merge(ctx context.Context, records []library.RawRecord, tracker provenance.Tracker) (library.Library, []identity.Group, error) {
	m, err := merge.NewMerger(merge.WithResolver(r.resolver), merge.WithTracker(tracker))
	if err != nil {
		return nil, nil, err
	}

	groups := identity.Group(records, r.resolver)
	lib, err := m.MergeAll(ctx, groups)
	if err != nil {
		return nil, nil, err
	}
	return lib, groups, nil
}

func (r *reconciler) changeset(logger *zerolog.Logger, lib library.Library) *differ.Changeset {
	if r.baseline == nil {
		logger.Debug().Msg("No baseline provided, skipping change detection")
		return nil
	}
	changes := differ.Diff(r.baseline, lib)
	logger.Debug().Str("changes", changes.String()).Msg("Compared against baseline")
	return changes
}

// Validate rejects records no source could have produced, and returns
// warnings for records that are usable but suspicious.
func Validate(records []library.RawRecord) ([]string, error) {
	var warnings []string
	for i, rec := range records {
		if !rec.Source.IsValid() {
			return nil, &errors.ValidationError{
				Field:   fmt.Sprintf("records[%d].source", i),
				Value:   rec.Source,
				Message: "unknown source",
			}
		}
		if rec.HoursPlayed != nil && *rec.HoursPlayed < 0 {
			return nil, &errors.ValidationError{
				Field:   fmt.Sprintf("records[%d].hoursPlayed", i),
				Value:   *rec.HoursPlayed,
				Message: "must not be negative",
			}
		}
		if rec.Title == "" {
			warnings = append(warnings, fmt.Sprintf("record %s:%s has no title", rec.Source, rec.ExternalID))
		}
	}
	return warnings, nil
}

func duplicateIDs(lib library.Library) map[string]int {
	counts := make(map[string]int, len(lib))
	for _, rec := range lib {
		counts[rec.CanonicalID]++
	}
	dups := make(map[string]int)
	for id, n := range counts {
		if n > 1 {
			dups[id] = n
		}
	}
	return dups
}

func withheld(decisions []subscription.Decision) int {
	n := 0
	for _, d := range decisions {
		if !d.State.Synced() {
			n++
		}
	}
	return n
}
