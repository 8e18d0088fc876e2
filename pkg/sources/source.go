// Package sources defines the closed set of platforms a game record can come
// from and the fixed priority order used for every merge tie-break.
//
// The taxonomy is an enumerated type rather than a free-form string so that
// adding a platform without giving it a priority rank fails to compile.
//
// Example usage:
//
//	src, err := sources.ParseType("steam")
//	if err != nil {
//	    return err
//	}
//	if sources.Higher(src, sources.GamePass) {
//	    // steam metadata wins over game pass metadata
//	}
package sources

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/gamelib/pkg/errors"
)

// Type identifies the platform a record was observed on.
type Type uint8

// Known sources. Unknown is the zero value and never valid.
const (
	Unknown Type = iota
	Steam
	Xbox
	Epic
	GOG
	Amazon
	GamePass
	Manual

	count // number of defined values, including Unknown
)

// Owned is the tag for the owned console/PC platform; Subscription is the
// tag for the subscription service it supersedes.
const (
	Owned        = Xbox
	Subscription = GamePass
)

var names = [count]string{
	Unknown:  "unknown",
	Steam:    "steam",
	Xbox:     "xbox",
	Epic:     "epic",
	GOG:      "gog",
	Amazon:   "amazon",
	GamePass: "gamepass",
	Manual:   "manual",
}

// aliases accepted by ParseType in addition to the canonical names.
var aliases = map[string]Type{
	"game-pass":     GamePass,
	"game_pass":     GamePass,
	"xbox-pass":     GamePass,
	"microsoft":     Xbox,
	"egs":           Epic,
	"epic-games":    Epic,
	"amazon-gaming": Amazon,
	"prime":         Amazon,
}

// String returns the lowercase tag of the source.
func (t Type) String() string {
	if t >= count {
		return names[Unknown]
	}
	return names[t]
}

// IsValid reports whether t is one of the defined sources.
func (t Type) IsValid() bool {
	return t > Unknown && t < count
}

// Types returns every valid source in priority order.
func Types() []Type {
	types := make([]Type, 0, count-1)
	for t := Unknown + 1; t < count; t++ {
		types = append(types, t)
	}
	slices.SortStableFunc(types, Compare)
	return types
}

// ParseType parses a source tag, case-insensitively.
func ParseType(s string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for t := Unknown + 1; t < count; t++ {
		if names[t] == key {
			return t, nil
		}
	}
	if t, ok := aliases[key]; ok {
		return t, nil
	}
	return Unknown, &errors.ValidationError{
		Field:   "source",
		Value:   s,
		Message: fmt.Sprintf("unknown source %q", s),
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, &errors.ValidationError{
			Field:   "source",
			Value:   uint8(t),
			Message: "cannot encode invalid source",
		}
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
