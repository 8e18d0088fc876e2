// Package normalize canonicalizes free-text game titles and scores how close
// two titles are.
//
// Normalization is deterministic and idempotent:
//
//	normalize.Normalize("The Witcher® 3: Wild Hunt - GOTY Edition") // "witcher 3 wild hunt"
//	normalize.Slugify("Half-Life 2")                                // "half-life-2"
//	normalize.Similarity("Hollow Knight", "Hollow Knigth")          // 0.846...
package normalize

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/gamelib/pkg/constants"
)

// glyphs are dropped outright.
var glyphs = strings.NewReplacer("™", "", "®", "", "©", "")

// punctuation becomes a word break.
var punctuation = strings.NewReplacer(
	":", " ",
	"'", " ",
	"’", " ", // right single quote
	"‘", " ", // left single quote
	"-", " ",
	"–", " ", // en dash
	"—", " ", // em dash
)

var (
	articles   = make(map[string]struct{}, len(constants.Articles))
	qualifiers [][]string
)

func init() {
	for _, a := range constants.Articles {
		articles[a] = struct{}{}
	}
	// Qualifiers are matched in token form, after the same punctuation and
	// article handling the title gets, so "game of the year" is stored as
	// [game of year] and "director's cut" as [director s cut].
	for _, q := range constants.EditionQualifiers {
		tokens := dropArticles(strings.Fields(punctuation.Replace(q)))
		if len(tokens) > 0 {
			qualifiers = append(qualifiers, tokens)
		}
	}
	slices.SortStableFunc(qualifiers, func(a, b []string) int {
		return len(b) - len(a)
	})
}

// Normalize canonicalizes a title into a comparable form. It never fails;
// empty input yields empty output.
func Normalize(title string) string {
	if title == "" {
		return ""
	}

	s := cases.Lower(language.Und).String(title)
	s = norm.NFC.String(s)
	s = glyphs.Replace(s)
	s = punctuation.Replace(s)

	tokens := dropArticles(strings.Fields(s))
	tokens = dropQualifiers(tokens)

	return strings.Join(tokens, " ")
}

// Slugify normalizes a title and reduces it to [a-z0-9] runs joined by
// single hyphens.
func Slugify(title string) string {
	normalized := Normalize(title)

	var b strings.Builder
	b.Grow(len(normalized))
	hyphen := false
	for _, r := range normalized {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen {
			b.WriteByte('-')
			hyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}

func dropArticles(tokens []string) []string {
	out := tokens[:0:0]
	for _, tok := range tokens {
		if _, ok := articles[tok]; ok {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// dropQualifiers removes qualifier phrases until none remain, since removing
// one phrase can join the words of another.
func dropQualifiers(tokens []string) []string {
	for {
		next, removed := removeOnce(tokens)
		if !removed {
			return next
		}
		tokens = next
	}
}

func removeOnce(tokens []string) ([]string, bool) {
	out := make([]string, 0, len(tokens))
	removed := false
	for i := 0; i < len(tokens); {
		if n := qualifierAt(tokens, i); n > 0 {
			i += n
			removed = true
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	return out, removed
}

// qualifierAt returns the token length of the longest qualifier starting at i.
func qualifierAt(tokens []string, i int) int {
	for _, q := range qualifiers {
		if i+len(q) <= len(tokens) && slices.Equal(tokens[i:i+len(q)], q) {
			return len(q)
		}
	}
	return 0
}
