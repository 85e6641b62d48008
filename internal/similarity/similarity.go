// =============================================================================
// Vendor Matcher - Similarity Scorer
// =============================================================================
//
// This module scores how alike two vendor names are on a 0-100 scale by
// blending three string metrics:
//
//   | Metric         | Weight | Catches                                  |
//   |----------------|--------|------------------------------------------|
//   | Ratio          | 0.4    | character edits ("Acme" / "Acmee")       |
//   | PartialRatio   | 0.3    | truncation/padding ("Acme" / "Acme Ltd") |
//   | TokenSortRatio | 0.3    | word order ("Smith John" / "John Smith") |
//
// The weights are fixed. Match thresholds are tuned against this blend, so
// changing them silently changes grouping.
//
// =============================================================================

package similarity

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Blend weights.
const (
	RatioWeight          = 0.4
	PartialRatioWeight   = 0.3
	TokenSortRatioWeight = 0.3
)

// Breakdown carries the individual metrics behind a score.
type Breakdown struct {
	Ratio          float64
	PartialRatio   float64
	TokenSortRatio float64
	Score          float64
}

// Score returns the blended similarity of a and b in [0, 100].
// Either string being empty scores 0.
func Score(a, b string) float64 {
	return Explain(a, b).Score
}

// Explain returns the blended score together with its components.
func Explain(a, b string) Breakdown {
	if a == "" || b == "" {
		return Breakdown{}
	}

	a = strings.ToLower(a)
	b = strings.ToLower(b)

	bd := Breakdown{
		Ratio:          Ratio(a, b),
		PartialRatio:   PartialRatio(a, b),
		TokenSortRatio: TokenSortRatio(a, b),
	}
	bd.Score = RatioWeight*bd.Ratio +
		PartialRatioWeight*bd.PartialRatio +
		TokenSortRatioWeight*bd.TokenSortRatio

	return bd
}

// Ratio is the Levenshtein similarity: 100 * (1 - distance / longer length).
// Lengths are counted in runes. Two empty strings are identical.
func Ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(dist)/float64(longest))
}

// PartialRatio is the best Ratio between the shorter string and every window
// of the same length in the longer one.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		if len(long) == 0 {
			return 100
		}
		return 0
	}

	needle := string(short)
	best := 0.0
	for start := 0; start+len(short) <= len(long); start++ {
		r := Ratio(needle, string(long[start:start+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio is Ratio after sorting each string's whitespace tokens.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
