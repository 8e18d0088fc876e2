package overrides

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/logging"
	"github.com/agentstation/gamelib/pkg/normalize"
)

// identityFields are never overridden; property overrides correct metadata
// only and must not change which game a record is.
var identityFields = map[string]struct{}{
	"canonicalId":  {},
	"contributors": {},
}

// ApplyPropertyOverrides shallow-merges the properties of every override
// whose match pattern covers the record title. Later overrides win over
// earlier ones, and all of them win over the record. Keys that are not
// record fields are ignored; values of the wrong type are logged and skipped.
// The input record is not modified.
func (r *Resolver) ApplyPropertyOverrides(rec library.CanonicalRecord) library.CanonicalRecord {
	if r == nil || len(r.rules.PropertyOverrides) == 0 {
		return rec
	}

	title := normalize.Normalize(rec.Title)
	out := rec
	cloned := false
	for i, o := range r.rules.PropertyOverrides {
		if !covers(r.patterns[i], title) {
			continue
		}
		if !cloned {
			out = rec.Clone()
			cloned = true
		}
		out = applyProperties(out, o)
	}
	return out
}

// MatchingOverrides returns the overrides that apply to a title, in file order.
func (r *Resolver) MatchingOverrides(title string) []PropertyOverride {
	if r == nil {
		return nil
	}
	normalized := normalize.Normalize(title)
	var matched []PropertyOverride
	for i, o := range r.rules.PropertyOverrides {
		if covers(r.patterns[i], normalized) {
			matched = append(matched, o)
		}
	}
	return matched
}

// applyProperties decodes each property onto rec independently so one bad
// value does not discard the others.
func applyProperties(rec library.CanonicalRecord, o PropertyOverride) library.CanonicalRecord {
	for _, key := range slices.Sorted(maps.Keys(o.Properties)) {
		if _, ok := identityFields[key]; ok {
			logging.Warn().
				Str("match", o.Match).
				Str("property", key).
				Msg("Ignoring override of identity field")
			continue
		}

		data, err := json.Marshal(map[string]any{key: o.Properties[key]})
		if err != nil {
			logging.Warn().Err(err).Str("match", o.Match).Str("property", key).Msg("Skipping property override")
			continue
		}

		// Decode onto a fresh clone so a failed decode leaves rec intact.
		candidate := rec.Clone()
		if err := json.Unmarshal(data, &candidate); err != nil {
			logging.Warn().Err(err).Str("match", o.Match).Str("property", key).Msg("Skipping property override")
			continue
		}
		rec = candidate
	}
	return rec
}
