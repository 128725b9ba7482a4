package nlp

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// SimilarityFunc scores two strings in [0, 1]. Implementations must be
// deterministic and symmetric.
type SimilarityFunc func(a, b string) float64

var bigramDice = &metrics.SorensenDice{CaseSensitive: true, NgramSize: 2}

// DiceCoefficient compares two strings by the overlap of their character
// bigrams, ignoring whitespace. Identical strings score 1 and strings with
// fewer than two characters that are not identical score 0.
func DiceCoefficient(a, b string) float64 {
	first := strings.Join(strings.Fields(a), "")
	second := strings.Join(strings.Fields(b), "")

	if first == second {
		if first == "" {
			return 0
		}
		return 1
	}
	if len([]rune(first)) < 2 || len([]rune(second)) < 2 {
		return 0
	}

	return strutil.Similarity(first, second, bigramDice)
}
