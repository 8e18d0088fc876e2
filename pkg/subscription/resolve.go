package subscription

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agentstation/gamelib/pkg/constants"
	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/normalize"
	"github.com/agentstation/gamelib/pkg/sources"
)

// Resolve evaluates every subscription-sourced record against the snapshots.
// It is deterministic and does not modify its input.
func Resolve(in Input) Result {
	r := newResolver(in)

	for _, rec := range in.Records {
		if rec.Source != sources.Subscription {
			r.result.ToSync = append(r.result.ToSync, rec)
			continue
		}
		r.evaluate(rec)
	}
	r.evaluateInterestOnly()
	r.finish()

	return r.result
}

type resolver struct {
	in Input

	owned     map[string]struct{}
	interest  map[string]struct{}
	available map[string]CatalogEntry
	prior     map[string]UnavailableEntry

	// interest keys already covered by a subscription record
	seen map[string]struct{}

	unavailable map[string]*UnavailableEntry
	synthesized []library.RawRecord
	result      Result
}

func newResolver(in Input) *resolver {
	r := &resolver{
		in:          in,
		owned:       keySet(in.Owned),
		interest:    keySet(in.Interest),
		available:   make(map[string]CatalogEntry),
		prior:       make(map[string]UnavailableEntry),
		seen:        make(map[string]struct{}),
		unavailable: make(map[string]*UnavailableEntry),
	}
	for _, entry := range in.Catalog {
		if !entry.Available {
			continue
		}
		key := normalize.Normalize(entry.Title)
		if _, dup := r.available[key]; !dup {
			r.available[key] = entry
		}
	}
	for _, entry := range in.PriorUnavailable {
		key := normalize.Normalize(entry.Title)
		if _, dup := r.prior[key]; !dup {
			r.prior[key] = entry
		}
	}
	r.result.ToSync = make([]library.RawRecord, 0, len(in.Records))
	return r
}

func (r *resolver) evaluate(rec library.RawRecord) {
	key := normalize.Normalize(rec.Title)
	_, owned := r.owned[key]
	_, wanted := r.interest[key]
	_, available := r.available[key]
	if wanted {
		r.seen[key] = struct{}{}
	}

	state := Withheld
	switch {
	case owned:
		state = Owned
		rec.Source = sources.Owned
		r.result.ToSync = append(r.result.ToSync, rec)
	case wanted && available:
		state = Eligible
		r.result.ToSync = append(r.result.ToSync, rec)
	case wanted:
		state = Ineligible
		r.report(key, rec.Title, constants.ReasonInterestUnavailable, rec.Hours() > 0, rec.Hours())
	case rec.Played() && !available:
		state = LeftCatalog
		r.report(key, rec.Title, constants.ReasonLeftCatalog, true, rec.Hours())
	}

	r.decide(rec.Title, sources.Subscription, state)
}

// evaluateInterestOnly handles wanted titles that no subscription record
// mentioned. The interest list is authoritative for what the user wants.
func (r *resolver) evaluateInterestOnly() {
	done := make(map[string]struct{})
	for _, title := range r.in.Interest {
		key := normalize.Normalize(title)
		if key == "" {
			continue
		}
		if _, ok := r.seen[key]; ok {
			continue
		}
		if _, ok := done[key]; ok {
			continue
		}
		done[key] = struct{}{}

		if _, owned := r.owned[key]; owned {
			continue
		}

		entry, available := r.available[key]
		if !available {
			r.report(key, title, constants.ReasonInterestUnavailable, false, 0)
			r.decide(title, sources.Subscription, Ineligible)
			continue
		}

		externalID := entry.ProductID
		if externalID == "" {
			externalID = normalize.Slugify(title)
		}
		r.synthesized = append(r.synthesized, library.RawRecord{
			Source:     sources.Subscription,
			ExternalID: externalID,
			Title:      entry.Title,
		})
		r.decide(entry.Title, sources.Subscription, Eligible)
	}
}

// report adds or extends an unavailable entry. Several records with the
// same title fold into one entry.
func (r *resolver) report(key, title, reason string, played bool, hours float64) {
	if entry, ok := r.unavailable[key]; ok {
		entry.WasPlayed = entry.WasPlayed || played
		if hours > 0 {
			total := hours
			if entry.HoursPlayed != nil {
				total += *entry.HoursPlayed
			}
			entry.HoursPlayed = &total
		}
		return
	}

	entry := &UnavailableEntry{
		Title:     title,
		Reason:    reason,
		WasPlayed: played,
	}
	if hours > 0 {
		entry.HoursPlayed = &hours
	}
	if prev, ok := r.prior[key]; ok && prev.FirstSeenUnavailable != nil {
		at := *prev.FirstSeenUnavailable
		entry.FirstSeenUnavailable = &at
	} else if !r.in.Now.IsZero() {
		at := r.in.Now
		entry.FirstSeenUnavailable = &at
	}
	r.unavailable[key] = entry
}

func (r *resolver) decide(title string, src sources.Type, state State) {
	r.result.Decisions = append(r.result.Decisions, Decision{
		Title:  title,
		Source: src,
		State:  state,
	})
}

func (r *resolver) finish() {
	r.result.ToSync = append(r.result.ToSync, r.synthesized...)

	keys := make([]string, 0, len(r.unavailable))
	for key := range r.unavailable {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	r.result.Unavailable = make([]UnavailableEntry, 0, len(keys))
	for _, key := range keys {
		r.result.Unavailable = append(r.result.Unavailable, *r.unavailable[key])
	}

	r.result.Returned = []string{}
	for key, entry := range r.prior {
		if _, back := r.available[key]; back {
			r.result.Returned = append(r.result.Returned, entry.Title)
		}
	}
	slices.SortFunc(r.result.Returned, func(a, b string) int {
		return cmp.Or(
			strings.Compare(normalize.Normalize(a), normalize.Normalize(b)),
			strings.Compare(a, b),
		)
	})
}

func keySet(titles []string) map[string]struct{} {
	set := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		if key := normalize.Normalize(t); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}
