// Package subscription decides which subscription-sourced titles belong in
// the library, and keeps the report of titles that are wanted or were played
// but are no longer in the subscription catalog.
//
// Every run starts from fresh snapshots: the owned list, the interest list,
// the live catalog and the previous run's unavailable report. Nothing else
// is carried between runs.
package subscription

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/sources"
)

// State is the outcome of evaluating one subscription title.
type State int

// Evaluation states.
const (
	// Withheld titles are neither synced nor reported.
	Withheld State = iota
	// Owned titles are synced under the owned platform tag.
	Owned
	// Eligible titles are wanted and in the catalog, and sync as subscription titles.
	Eligible
	// Ineligible titles are wanted but missing from the catalog.
	Ineligible
	// LeftCatalog titles were played but are no longer in the catalog.
	LeftCatalog
)

var stateNames = map[State]string{
	Withheld:    "withheld",
	Owned:       "owned",
	Eligible:    "eligible",
	Ineligible:  "ineligible",
	LeftCatalog: "left-catalog",
}

// String returns the state name.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Synced reports whether titles in this state go into the library.
func (s State) Synced() bool {
	return s == Owned || s == Eligible
}

// CatalogEntry is one title of the live subscription catalog.
type CatalogEntry struct {
	Title     string `json:"title" yaml:"title"`
	Available bool   `json:"available" yaml:"available"`
	ProductID string `json:"productId,omitempty" yaml:"productId,omitempty"`
}

// UnavailableEntry is one line of the unavailable report.
type UnavailableEntry struct {
	Title                string    `json:"title" yaml:"title"`
	Reason               string    `json:"reason" yaml:"reason"`
	WasPlayed            bool      `json:"wasPlayed" yaml:"wasPlayed"`
	HoursPlayed          *float64  `json:"hoursPlayed,omitempty" yaml:"hoursPlayed,omitempty"`
	FirstSeenUnavailable *utc.Time `json:"firstSeenUnavailable,omitempty" yaml:"firstSeenUnavailable,omitempty"`
}

// Input is the complete set of snapshots for one run. Missing snapshots are
// simply empty.
type Input struct {
	Records          []library.RawRecord
	Catalog          []CatalogEntry
	Owned            []string
	Interest         []string
	PriorUnavailable []UnavailableEntry

	// Now stamps entries that become unavailable this run. When zero, new
	// entries carry no timestamp.
	Now utc.Time
}

// Decision records how one title was evaluated.
type Decision struct {
	Title  string       `json:"title" yaml:"title"`
	Source sources.Type `json:"source" yaml:"source"`
	State  State        `json:"state" yaml:"state"`
}

// Result is the output of Resolve.
type Result struct {
	// ToSync holds records to reconcile: non-subscription records and the
	// subscription records that passed, in input order, followed by records
	// synthesized for wanted titles that had no subscription record.
	ToSync []library.RawRecord `json:"toSync" yaml:"toSync"`

	// Unavailable replaces the previous report.
	Unavailable []UnavailableEntry `json:"unavailable" yaml:"unavailable"`

	// Returned lists titles from the previous report that are back in the catalog.
	Returned []string `json:"returned" yaml:"returned"`

	// Decisions explains each subscription title that was evaluated.
	Decisions []Decision `json:"decisions" yaml:"decisions"`
}
