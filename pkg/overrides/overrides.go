// Package overrides applies user-authored rules on top of heuristic matching:
// forced merges that unify titles regardless of similarity, and property
// overrides that correct metadata on canonical records.
//
// Rules are held by an explicit Resolver value that callers pass through the
// pipeline. A nil *Resolver is valid and resolves nothing.
//
// Example rules file:
//
//	forceMerge:
//	  - titles: ["Final Fantasy VII", "FF7", "FINAL FANTASY VII REMAKE INTERGRADE"]
//	    canonicalName: Final Fantasy VII Remake
//	propertyOverrides:
//	  - match: Hades
//	    properties:
//	      genres: [Roguelike, Action]
package overrides

import (
	"strings"

	"github.com/agentstation/gamelib/pkg/normalize"
)

// ForceMergeRule declares a set of title variants that name the same game.
type ForceMergeRule struct {
	Titles        []string `json:"titles" yaml:"titles"`
	CanonicalName string   `json:"canonicalName,omitempty" yaml:"canonicalName,omitempty"`
}

// Name returns the canonical name, defaulting to the first listed variant.
func (r ForceMergeRule) Name() string {
	if r.CanonicalName != "" {
		return r.CanonicalName
	}
	if len(r.Titles) > 0 {
		return r.Titles[0]
	}
	return ""
}

// PropertyOverride replaces fields on canonical records whose title matches.
type PropertyOverride struct {
	Match      string         `json:"match" yaml:"match"`
	Properties map[string]any `json:"properties" yaml:"properties"`
}

// Rules is the contents of an overrides file.
type Rules struct {
	ForceMerge        []ForceMergeRule   `json:"forceMerge,omitempty" yaml:"forceMerge,omitempty"`
	PropertyOverrides []PropertyOverride `json:"propertyOverrides,omitempty" yaml:"propertyOverrides,omitempty"`
}

// IsEmpty reports whether there are no rules of either kind.
func (r Rules) IsEmpty() bool {
	return len(r.ForceMerge) == 0 && len(r.PropertyOverrides) == 0
}

// Resolver answers override questions for a fixed rule set.
type Resolver struct {
	rules Rules

	// normalized variants per force-merge rule, and normalized match
	// patterns per property override, computed once.
	variants [][]string
	patterns []string
}

// NewResolver prepares a resolver for the given rules.
func NewResolver(rules Rules) *Resolver {
	r := &Resolver{
		rules:    rules,
		variants: make([][]string, len(rules.ForceMerge)),
		patterns: make([]string, len(rules.PropertyOverrides)),
	}
	for i, rule := range rules.ForceMerge {
		for _, title := range rule.Titles {
			r.variants[i] = append(r.variants[i], normalize.Normalize(title))
		}
	}
	for i, o := range rules.PropertyOverrides {
		r.patterns[i] = normalize.Normalize(o.Match)
	}
	return r
}

// Rules returns the rule set the resolver was built from.
func (r *Resolver) Rules() Rules {
	if r == nil {
		return Rules{}
	}
	return r.rules
}

// ResolveForcedMerge returns the canonical name of the first rule covering
// both titles. Rules take precedence over similarity and cannot be vetoed.
func (r *Resolver) ResolveForcedMerge(titleA, titleB string) (string, bool) {
	if r == nil || len(r.rules.ForceMerge) == 0 {
		return "", false
	}

	a, b := normalize.Normalize(titleA), normalize.Normalize(titleB)
	for i, rule := range r.rules.ForceMerge {
		if coversAny(r.variants[i], a) && coversAny(r.variants[i], b) {
			return rule.Name(), true
		}
	}
	return "", false
}

func coversAny(variants []string, title string) bool {
	for _, v := range variants {
		if covers(v, title) {
			return true
		}
	}
	return false
}

// covers is the weak containment test shared by both rule kinds: equal, or
// either string containing the other. It deliberately admits partial titles.
// An empty side never covers, since it would be contained in everything.
func covers(pattern, title string) bool {
	if pattern == "" || title == "" {
		return false
	}
	return pattern == title ||
		strings.Contains(title, pattern) ||
		strings.Contains(pattern, title)
}
