// Package suggest reports near-miss title pairs that identity grouping kept
// apart, so a person can decide whether to add a forced-merge rule.
// It never changes the library.
package suggest

import (
	"slices"

	"github.com/agentstation/gamelib/pkg/constants"
	"github.com/agentstation/gamelib/pkg/library"
	"github.com/agentstation/gamelib/pkg/normalize"
	"github.com/agentstation/gamelib/pkg/sources"
)

// Suggestion is a pair of records from different sources that look like the
// same game.
type Suggestion struct {
	Titles     [2]string       `json:"titles" yaml:"titles"`
	Sources    [2]sources.Type `json:"sources" yaml:"sources"`
	Similarity float64         `json:"similarity" yaml:"similarity"`
	Reason     string          `json:"reason" yaml:"reason"`
}

// Reason describes a similarity score in the suggestion band.
func Reason(similarity float64) string {
	switch {
	case similarity >= constants.SubstringScore:
		return constants.ReasonEditionVariant
	case similarity >= constants.VeryHighSimilarity:
		return constants.ReasonMinorVariation
	default:
		return constants.ReasonPossiblyRelated
	}
}

// Suggest pairs records from different sources whose similarity falls in
// [constants.MatchThreshold, 1.0). Pairing is greedy in input order and each
// record appears in at most one suggestion. Results are sorted by
// similarity, highest first, keeping discovery order for ties.
func Suggest(records []library.RawRecord) []Suggestion {
	normalized := make([]string, len(records))
	for i, r := range records {
		normalized[i] = normalize.Normalize(r.Title)
	}

	used := make([]bool, len(records))
	suggestions := []Suggestion{}

	for i := range records {
		if used[i] {
			continue
		}
		for j := i + 1; j < len(records); j++ {
			if used[j] || records[i].Source == records[j].Source {
				continue
			}

			score := normalize.Similarity(normalized[i], normalized[j])
			if score >= constants.ExactMatch || score < constants.MatchThreshold {
				continue
			}

			suggestions = append(suggestions, Suggestion{
				Titles:     [2]string{records[i].Title, records[j].Title},
				Sources:    [2]sources.Type{records[i].Source, records[j].Source},
				Similarity: score,
				Reason:     Reason(score),
			})
			used[i], used[j] = true, true
			break
		}
	}

	slices.SortStableFunc(suggestions, func(a, b Suggestion) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		default:
			return 0
		}
	})
	return suggestions
}
