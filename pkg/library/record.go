// Package library defines the records flowing through reconciliation: raw
// per-platform observations and the canonical, deduplicated games built from
// them.
package library

import (
	"slices"

	"github.com/agentstation/utc"

	"github.com/agentstation/gamelib/pkg/sources"
)

// RawRecord is one observation of a game from one source. Records are never
// mutated after a source produces them; several may describe the same game.
type RawRecord struct {
	Source          sources.Type `json:"source" yaml:"source"`
	ExternalID      string       `json:"externalId" yaml:"externalId"`
	Title           string       `json:"title" yaml:"title"`
	NativeNumericID *int64       `json:"nativeNumericId,omitempty" yaml:"nativeNumericId,omitempty"`
	HoursPlayed     *float64     `json:"hoursPlayed,omitempty" yaml:"hoursPlayed,omitempty"`
	LastPlayedAt    *utc.Time    `json:"lastPlayedAt,omitempty" yaml:"lastPlayedAt,omitempty"`
	CoverImageURL   string       `json:"coverImageUrl,omitempty" yaml:"coverImageUrl,omitempty"`
	ReleaseDate     string       `json:"releaseDate,omitempty" yaml:"releaseDate,omitempty"`
	Genres          []string     `json:"genres,omitempty" yaml:"genres,omitempty"`
}

// Hours returns the hours played, treating a missing value as zero.
func (r RawRecord) Hours() float64 {
	if r.HoursPlayed == nil {
		return 0
	}
	return *r.HoursPlayed
}

// Played reports whether the record shows any play activity.
func (r RawRecord) Played() bool {
	return r.Hours() > 0 || r.LastPlayedAt != nil
}

// HasNativeID reports whether the record carries a storefront catalog ID.
func (r RawRecord) HasNativeID() bool {
	return r.NativeNumericID != nil
}

// Contributor identifies one raw record folded into a canonical record.
type Contributor struct {
	Source     sources.Type `json:"source" yaml:"source"`
	ExternalID string       `json:"externalId" yaml:"externalId"`
	Title      string       `json:"title" yaml:"title"`
}

// CanonicalRecord is the merged representation of one logical game.
// It always has at least one contributor, and TotalHours, when set, is
// strictly positive.
type CanonicalRecord struct {
	CanonicalID     string         `json:"canonicalId" yaml:"canonicalId"`
	Title           string         `json:"title" yaml:"title"`
	PrimarySource   sources.Type   `json:"primarySource" yaml:"primarySource"`
	OwnedSources    []sources.Type `json:"ownedSources" yaml:"ownedSources"`
	NativeNumericID *int64         `json:"nativeNumericId,omitempty" yaml:"nativeNumericId,omitempty"`
	TotalHours      *float64       `json:"totalHours,omitempty" yaml:"totalHours,omitempty"`
	LastPlayedAt    *utc.Time      `json:"lastPlayedAt,omitempty" yaml:"lastPlayedAt,omitempty"`
	CoverImageURL   string         `json:"coverImageUrl,omitempty" yaml:"coverImageUrl,omitempty"`
	ReleaseDate     string         `json:"releaseDate,omitempty" yaml:"releaseDate,omitempty"`
	Genres          []string       `json:"genres,omitempty" yaml:"genres,omitempty"`
	Contributors    []Contributor  `json:"contributors" yaml:"contributors"`
}

// Hours returns the total hours played, or zero when none were recorded.
func (c CanonicalRecord) Hours() float64 {
	if c.TotalHours == nil {
		return 0
	}
	return *c.TotalHours
}

// HasSource reports whether src is among the owned sources.
func (c CanonicalRecord) HasSource(src sources.Type) bool {
	return slices.Contains(c.OwnedSources, src)
}

// Clone returns a deep copy of the record, so callers can modify slices and
// optional fields without touching the original.
func (c CanonicalRecord) Clone() CanonicalRecord {
	out := c
	out.OwnedSources = slices.Clone(c.OwnedSources)
	out.Genres = slices.Clone(c.Genres)
	out.Contributors = slices.Clone(c.Contributors)
	if c.NativeNumericID != nil {
		id := *c.NativeNumericID
		out.NativeNumericID = &id
	}
	if c.TotalHours != nil {
		hours := *c.TotalHours
		out.TotalHours = &hours
	}
	if c.LastPlayedAt != nil {
		at := *c.LastPlayedAt
		out.LastPlayedAt = &at
	}
	return out
}
