package merge

import (
	"context"
	"fmt"

	"github.com/agentstation/utc"

	"github.com/agentstation/gamelib/pkg/errors"
	"github.com/agentstation/gamelib/pkg/identity"
	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/logging"
	"github.com/agentstation/gamelib/pkg/overrides"
	"github.com/agentstation/gamelib/pkg/provenance"
	"github.com/agentstation/gamelib/pkg/sources"
)

// Merger merges groups the same way Merge does, and additionally logs which
// sources were folded together and records field provenance.
type Merger struct {
	resolver *overrides.Resolver
	tracker  provenance.Tracker
}

type options struct {
	resolver *overrides.Resolver
	tracker  provenance.Tracker
}

// Option configures a Merger.
type Option func(*options) error

func defaultOptions() *options {
	return &options{
		tracker: provenance.NewTracker(false),
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithResolver sets the override rules consulted for canonical titles.
func WithResolver(resolver *overrides.Resolver) Option {
	return func(o *options) error {
		o.resolver = resolver
		return nil
	}
}

// WithTracker records field provenance into tracker.
func WithTracker(tracker provenance.Tracker) Option {
	return func(o *options) error {
		if tracker == nil {
			return &errors.ValidationError{
				Field:   "tracker",
				Message: "cannot be nil",
			}
		}
		o.tracker = tracker
		return nil
	}
}

// NewMerger creates a Merger.
func NewMerger(opts ...Option) (*Merger, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Merger{
		resolver: o.resolver,
		tracker:  o.tracker,
	}, nil
}

// Tracker returns the provenance tracker.
func (m *Merger) Tracker() provenance.Tracker {
	return m.tracker
}

// Merge merges one group.
func (m *Merger) Merge(ctx context.Context, group identity.Group) (library.CanonicalRecord, error) {
	rec, err := Merge(group.Records, m.resolver)
	if err != nil {
		return library.CanonicalRecord{}, errors.NewMergeError(group.Key, err)
	}

	logger := logging.FromContext(logging.WithCanonicalID(ctx, rec.CanonicalID))
	if len(rec.Contributors) > 1 {
		names := make([]string, 0, len(rec.Contributors))
		for _, c := range rec.Contributors {
			names = append(names, c.Source.String())
		}
		logger.Debug().
			Str("group", group.Key).
			Strs("sources", names).
			Str("title", rec.Title).
			Msg("Merged records")
	}

	m.track(rec, ByPriority(group.Records))
	return rec, nil
}

// MergeAll merges every group, in order.
func (m *Merger) MergeAll(ctx context.Context, groups []identity.Group) ([]library.CanonicalRecord, error) {
	out := make([]library.CanonicalRecord, 0, len(groups))
	for _, g := range groups {
		rec, err := m.Merge(ctx, g)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// track records every contributor's candidate for the primary-sourced fields.
func (m *Merger) track(rec library.CanonicalRecord, sorted []library.RawRecord) {
	now := utc.Now()
	primary := sorted[0]

	for i, r := range sorted {
		fromPrimary := i == 0
		candidate := func(field string, value any, selected bool) {
			reason := "highest priority source"
			if !fromPrimary {
				reason = fmt.Sprintf("outranked by %s", primary.Source)
			}
			m.tracker.Track(rec.CanonicalID, field, provenance.Provenance{
				Source:     r.Source,
				ExternalID: r.ExternalID,
				Value:      value,
				Selected:   selected,
				Reason:     reason,
				Timestamp:  now,
			})
		}

		candidate("title", r.Title, fromPrimary && rec.Title == primary.Title)
		if r.CoverImageURL != "" {
			candidate("coverImageUrl", r.CoverImageURL, fromPrimary)
		}
		if r.ReleaseDate != "" {
			candidate("releaseDate", r.ReleaseDate, fromPrimary)
		}
		if len(r.Genres) > 0 {
			candidate("genres", r.Genres, fromPrimary)
		}
		if r.LastPlayedAt != nil {
			selected := r.LastPlayedAt.Time.Equal(rec.LastPlayedAt.Time)
			reason := "older play"
			if selected {
				reason = "most recent play"
			}
			m.tracker.Track(rec.CanonicalID, "lastPlayedAt", provenance.Provenance{
				Source:     r.Source,
				ExternalID: r.ExternalID,
				Value:      r.LastPlayedAt.Time,
				Selected:   selected,
				Reason:     reason,
				Timestamp:  now,
			})
		}
	}

	if rec.TotalHours != nil {
		m.tracker.Track(rec.CanonicalID, "totalHours", provenance.Provenance{
			Source:     primary.Source,
			ExternalID: primary.ExternalID,
			Value:      *rec.TotalHours,
			Selected:   true,
			Reason:     fmt.Sprintf("sum of %d contributors", len(sorted)),
			Timestamp:  now,
		})
	}

	if rec.Title != primary.Title {
		m.tracker.Track(rec.CanonicalID, "title", provenance.Provenance{
			Source:    sources.Manual,
			Value:     rec.Title,
			Selected:  true,
			Reason:    "forced-merge rule canonical name",
			Timestamp: now,
		})
	}
}
