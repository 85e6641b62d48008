// =============================================================================
// Vendor Matcher - Clusterer
// =============================================================================
//
// This module partitions a list of vendor names into groups of near-duplicate
// spellings.
//
// ALGORITHM (greedy, single pass, representative-anchored):
//   1. Build the unique name set: trim, drop blanks, keep first-seen order.
//   2. For each name not yet assigned:
//      a. Start a group with it as the primary.
//      b. Scan every later unassigned name and add those scoring at least
//         the threshold against the PRIMARY.
//      c. Keep the group only if it absorbed at least one other name.
//
// ANCHORING:
//   Candidates are compared with the primary only, never with members added
//   later. Given A~B and B~C but not A~C, A's group is {A, B} and C is left
//   for a later pass. This is not transitive closure (no union-find) and the
//   outcome depends on input order, which is why the unique set preserves
//   first-seen order.
//
// NORMALIZATION:
//   When Options.Normalize is set, scores are computed on normalized keys
//   ("ACME Inc." -> "acme"; with the default long-form suffixes also
//   "Acme Incorporated" -> "acme") while groups still report the raw names.
//   A name whose key normalizes to "" is compared by its trimmed raw form.
//
// =============================================================================

package clusterer

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/vendor-matching/internal/normalizer"
	"github.com/ginjaninja78/vendor-matching/internal/similarity"
	"github.com/ginjaninja78/vendor-matching/internal/types"
)

// DefaultThreshold is the blended score a candidate needs to join a group.
const DefaultThreshold = 85.0

// Options controls clustering.
type Options struct {
	// Threshold is the minimum score in [0, 100].
	Threshold float64

	// Normalize compares normalized keys instead of raw names.
	Normalize bool

	// FoldAccents is passed to the normalizer when Normalize is set.
	FoldAccents bool

	// ExtraSuffixes are passed to the normalizer when Normalize is set.
	ExtraSuffixes []string
}

// DefaultOptions returns the default threshold with normalization enabled and
// the long-form suffixes ("incorporated", "limited") stripped.
func DefaultOptions() Options {
	return Options{
		Threshold:     DefaultThreshold,
		Normalize:     true,
		ExtraSuffixes: append([]string(nil), normalizer.LongFormSuffixes...),
	}
}

// UniqueNames trims names, drops blanks and duplicates, and keeps first-seen order.
func UniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}

	return unique
}

// Coerce turns arbitrary cell values into names. nil values are dropped and
// everything else is formatted with fmt.
func Coerce(values []any) []string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		switch x := v.(type) {
		case nil:
			continue
		case string:
			names = append(names, x)
		default:
			names = append(names, fmt.Sprint(x))
		}
	}
	return names
}

// Cluster groups the names. Only groups with two or more members are returned,
// in the order their primaries were reached.
func Cluster(names []string, opts Options) types.MatchResult {
	unique := UniqueNames(names)
	keys := comparisonKeys(unique, opts)

	processed := make([]bool, len(unique))
	var result types.MatchResult

	for i, primary := range unique {
		if processed[i] {
			continue
		}
		processed[i] = true
		group := types.Group{Primary: primary, Members: []string{primary}}

		for j := i + 1; j < len(unique); j++ {
			if processed[j] {
				continue
			}
			if similarity.Score(keys[i], keys[j]) >= opts.Threshold {
				group.Members = append(group.Members, unique[j])
				processed[j] = true
			}
		}

		if group.Size() > 1 {
			result.Groups = append(result.Groups, group)
		}
	}

	return result
}

// comparisonKeys returns the string each unique name is scored by.
func comparisonKeys(unique []string, opts Options) []string {
	keys := make([]string, len(unique))
	for i, name := range unique {
		keys[i] = Key(name, opts)
	}
	return keys
}

// Key returns the string a name is scored by: the trimmed name, or its
// normalized form when opts.Normalize is set. A name that normalizes to ""
// ("Co Inc") keeps its trimmed raw form.
func Key(name string, opts Options) string {
	name = strings.TrimSpace(name)
	if !opts.Normalize {
		return name
	}
	normOpts := normalizer.Options{FoldAccents: opts.FoldAccents, ExtraSuffixes: opts.ExtraSuffixes}
	if key := normalizer.NormalizeWith(name, normOpts); key != "" {
		return key
	}
	return name
}
