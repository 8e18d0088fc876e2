package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/gamelib/pkg/differ"
	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/provenance"
	"github.com/agentstation/gamelib/pkg/subscription"
	"github.com/agentstation/gamelib/pkg/suggest"
)

// Result represents the outcome of a reconciliation.
type Result struct {
	// Library is the canonical, deduplicated library in group order.
	Library library.Library

	// Subscription eligibility outcome: the replacement unavailable
	// report, titles back in the catalog and per-title decisions.
	Unavailable []subscription.UnavailableEntry
	Returned    []string
	Decisions   []subscription.Decision

	// Suggestions lists near-miss pairs for human review.
	Suggestions []suggest.Suggestion

	// Changeset against the baseline; nil without one.
	Changeset *differ.Changeset

	// Provenance is set when tracking is enabled.
	Provenance provenance.Map

	Metadata ResultMetadata
	Warnings []string
}

// ResultMetadata contains metadata about the reconciliation.
type ResultMetadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Stats     ResultStatistics
}

// ResultStatistics contains counts gathered during reconciliation.
type ResultStatistics struct {
	RawRecords   int
	Eligible     int
	Withheld     int
	Groups       int
	Merged       int // records folded into another record's group
	Suggestions  int
	DuplicateIDs int
}

// HasChanges returns true if the baseline comparison found changes.
func (r *Result) HasChanges() bool {
	return r.Changeset != nil && r.Changeset.HasChanges()
}

// Summary returns a one-line description of the run.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	return fmt.Sprintf("%d records → %d games (%d merged, %d withheld, %d unavailable, %d suggestions)",
		s.RawRecords, len(r.Library), s.Merged, s.Withheld, len(r.Unavailable), s.Suggestions)
}
