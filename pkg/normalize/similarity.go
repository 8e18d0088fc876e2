package normalize

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/agentstation/gamelib/pkg/constants"
)

// Similarity scores two titles in [0, 1] after normalizing both.
// Identical titles score 1.0, long titles where one contains the other
// score constants.SubstringScore, and everything else is scored by
// normalized edit distance.
func Similarity(a, b string) float64 {
	return similarityNormalized(Normalize(a), Normalize(b))
}

func similarityNormalized(a, b string) float64 {
	if a == b {
		return constants.ExactMatch
	}

	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la >= constants.SubstringMinLength && lb >= constants.SubstringMinLength &&
		(strings.Contains(a, b) || strings.Contains(b, a)) {
		return constants.SubstringScore
	}

	longest := max(la, lb)
	if longest == 0 {
		return constants.ExactMatch
	}

	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}

// IsLikelyMatch reports whether two titles score at or above
// constants.MatchThreshold.
func IsLikelyMatch(a, b string) bool {
	return Similarity(a, b) >= constants.MatchThreshold
}
