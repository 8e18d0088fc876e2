// Package identity clusters raw records that describe the same game.
//
// Grouping favors precision over recall. Records join a group only on a
// shared native catalog ID, a forced-merge rule, or identical normalized
// titles. Near misses stay apart and are left to the suggestion report.
package identity

import (
	"strconv"

	"github.com/agentstation/gamelib/pkg/constants"
	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/normalize"
	"github.com/agentstation/gamelib/pkg/overrides"
	"github.com/agentstation/gamelib/pkg/sources"
)

// Group is a non-empty cluster of records believed to be one game.
type Group struct {
	// Key identifies the group: "<source>:<id>" for native ID groups,
	// otherwise a title slug.
	Key string

	// ByNativeID is set when the group was formed from a native catalog ID.
	ByNativeID bool

	// Records in input order.
	Records []library.RawRecord
}

// NativeKey returns the group key for a native catalog ID. IDs are qualified
// by source so unrelated ID spaces cannot collide.
func NativeKey(src sources.Type, id int64) string {
	return src.String() + ":" + strconv.FormatInt(id, 10)
}

// Group clusters records. Groups are returned in creation order and records
// keep their input order within a group. The resolver may be nil.
func Group(records []library.RawRecord, resolver *overrides.Resolver) []Group {
	g := grouper{
		resolver: resolver,
		byKey:    make(map[string]int),
	}
	for _, rec := range records {
		g.add(rec)
	}
	return g.groups
}

// Index maps group keys to groups.
func Index(groups []Group) map[string]Group {
	index := make(map[string]Group, len(groups))
	for _, grp := range groups {
		index[grp.Key] = grp
	}
	return index
}

type grouper struct {
	resolver *overrides.Resolver
	groups   []Group
	byKey    map[string]int

	// title groups in creation order, with their representative's
	// normalized title
	titleGroups []int
	titleKeys   []string
}

func (g *grouper) add(rec library.RawRecord) {
	if rec.HasNativeID() {
		key := NativeKey(rec.Source, *rec.NativeNumericID)
		if i, ok := g.byKey[key]; ok {
			g.groups[i].Records = append(g.groups[i].Records, rec)
			return
		}
		g.open(key, true, rec)
		return
	}

	normalized := normalize.Normalize(rec.Title)
	for n, i := range g.titleGroups {
		if g.matches(g.groups[i].Records[0].Title, g.titleKeys[n], rec.Title, normalized) {
			g.groups[i].Records = append(g.groups[i].Records, rec)
			return
		}
	}

	i := g.open(g.uniqueKey(normalize.Slugify(rec.Title)), false, rec)
	g.titleGroups = append(g.titleGroups, i)
	g.titleKeys = append(g.titleKeys, normalized)
}

// matches applies forced-merge rules, then exact normalized equality.
// Fuzzy similarity is intentionally not consulted.
func (g *grouper) matches(repTitle, repNormalized, title, normalized string) bool {
	if _, ok := g.resolver.ResolveForcedMerge(repTitle, title); ok {
		return true
	}
	return repNormalized == normalized
}

func (g *grouper) open(key string, byNativeID bool, rec library.RawRecord) int {
	g.groups = append(g.groups, Group{
		Key:        key,
		ByNativeID: byNativeID,
		Records:    []library.RawRecord{rec},
	})
	i := len(g.groups) - 1
	g.byKey[key] = i
	return i
}

// uniqueKey suffixes a slug until it is unused. Distinct titles can share a
// slug, e.g. "Hades!" and "Hades?".
func (g *grouper) uniqueKey(slug string) string {
	if slug == "" {
		slug = constants.UntitledKey
	}
	key := slug
	for n := 2; ; n++ {
		if _, taken := g.byKey[key]; !taken {
			return key
		}
		key = slug + "-" + strconv.Itoa(n)
	}
}
