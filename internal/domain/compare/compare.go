// Package compare provides the tolerance-based equality predicates used
// throughout the reconciliation engine: relative numeric matching and a
// normalized text similarity score for fuzzy product-name pairing.
package compare

import (
	"math"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// epsilon guards the relative-tolerance scale when both operands are
// near zero; without it any non-zero difference between tiny values
// would divide into nonsense.
const epsilon = 1e-9

// NumericMatch reports whether a and b agree within the given relative
// tolerance: |a-b| <= tolerance * max(|a|, |b|, epsilon). The boundary is
// inclusive. Equal values always match, so a tolerance of zero demands
// exact equality and two exact zeros agree regardless of tolerance.
func NumericMatch(a, b, tolerance float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Max(math.Abs(b), epsilon))
	return math.Abs(a-b) <= tolerance*scale
}

// TextSimilarity scores how alike two match keys are, in [0,1].
//
// The score is Levenshtein distance normalized by the longer rune length,
// with one adjustment: when one non-empty key contains the other whole,
// the pair scores 1. Product names frequently differ only by filler words
// ("The SIM" vs "Sim"), and plain edit distance punishes the length gap
// far beyond what the domain intends.
func TextSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 1
	}

	ar := []rune(a)
	br := []rune(b)
	longest := len(ar)
	if len(br) > longest {
		longest = len(br)
	}

	dist := levenshtein.DistanceForStrings(ar, br, levenshtein.DefaultOptions)
	return 1 - float64(dist)/float64(longest)
}
