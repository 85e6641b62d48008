// =============================================================================
// Vendor Matcher - Name Normalizer
// =============================================================================
//
// This module canonicalizes raw vendor names into a comparison-friendly form.
//
// PIPELINE (in order):
//   1. Lowercase and trim
//   2. Collapse whitespace runs to one space
//   3. Remove legal-entity suffix words (inc, llc, ltd, corp, corporation, co,
//      company, plus any Options.ExtraSuffixes), whole words only, with or
//      without a trailing period
//   4. Strip punctuation and any other non-word character
//   5. Drop single-character tokens (middle initials: "John M Doe" -> "john doe")
//   6. Re-collapse whitespace and trim
//
// Word characters are Unicode letters, marks, digits and underscore, so
// "Société" keeps its accent unless FoldAccents is requested.
//
// =============================================================================

package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LegalSuffixes are removed when they appear as whole words.
var LegalSuffixes = []string{"inc", "llc", "ltd", "corp", "corporation", "co", "company"}

// LongFormSuffixes are spelled-out forms of LegalSuffixes. They are not removed
// by Normalize; matching opts into them through Options.ExtraSuffixes.
var LongFormSuffixes = []string{"incorporated", "limited"}

var (
	wordRun = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)

	suffixSet = func() map[string]struct{} {
		m := make(map[string]struct{}, len(LegalSuffixes))
		for _, s := range LegalSuffixes {
			m[s] = struct{}{}
		}
		return m
	}()
)

// Options tunes the pipeline.
type Options struct {
	// FoldAccents strips diacritics before lowercasing ("Café" -> "cafe").
	FoldAccents bool

	// ExtraSuffixes are removed in addition to LegalSuffixes. Compared lowercase.
	ExtraSuffixes []string
}

// Normalize canonicalizes a vendor name. Any non-string input yields "".
func Normalize(v any) string {
	return NormalizeWith(v, Options{})
}

// NormalizeWith is Normalize with explicit options.
func NormalizeWith(v any, opts Options) string {
	name, ok := v.(string)
	if !ok {
		return ""
	}
	if opts.FoldAccents {
		name = foldAccents(name)
	}

	normalized := collapse(strings.ToLower(strings.TrimSpace(name)))

	extra := make(map[string]struct{}, len(opts.ExtraSuffixes))
	for _, s := range opts.ExtraSuffixes {
		extra[strings.ToLower(s)] = struct{}{}
	}
	normalized = wordRun.ReplaceAllStringFunc(normalized, func(word string) string {
		if _, isSuffix := suffixSet[word]; isSuffix {
			return ""
		}
		if _, isSuffix := extra[word]; isSuffix {
			return ""
		}
		return word
	})

	normalized = strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, normalized)

	tokens := strings.Fields(normalized)
	kept := tokens[:0]
	for _, tok := range tokens {
		if len([]rune(tok)) > 1 {
			kept = append(kept, tok)
		}
	}

	return strings.Join(kept, " ")
}

// collapse replaces whitespace runs with one space and trims the ends.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r)
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
