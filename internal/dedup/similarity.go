// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"unicode/utf8"

	"github.com/pdiddy/review-engine/pkg/types"
)

const (
	// DefaultSimilarityThreshold is the similarity a fuzzy title pair must exceed.
	DefaultSimilarityThreshold = 0.90

	// DefaultMaxLengthGap bounds the normalized length difference for which
	// edit distance is computed at all.
	DefaultMaxLengthGap = 10
)

// Options tunes pairwise matching.
type Options struct {
	// SimilarityThreshold is compared with a strict greater-than.
	SimilarityThreshold float64

	// MaxLengthGap: pairs whose normalized lengths differ by this much or
	// more are judged non-matching without computing distance.
	MaxLengthGap int
}

// DefaultOptions returns the calibrated thresholds (0.90, 10).
func DefaultOptions() Options {
	return Options{
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxLengthGap:        DefaultMaxLengthGap,
	}
}

// OptionsFromConfig fills unset config values with the defaults.
func OptionsFromConfig(cfg types.DedupConfig) Options {
	opts := DefaultOptions()
	if cfg.SimilarityThreshold > 0 {
		opts.SimilarityThreshold = cfg.SimilarityThreshold
	}
	if cfg.MaxLengthGap > 0 {
		opts.MaxLengthGap = cfg.MaxLengthGap
	}
	return opts
}

// Distance returns the Levenshtein edit distance between a and b, counted
// in runes: the fewest single-character insertions, deletions, or
// substitutions that turn a into b.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// table[i][j] is the distance between ra[:i] and rb[:j].
	table := make([][]int, len(ra)+1)
	for i := range table {
		table[i] = make([]int, len(rb)+1)
		table[i][0] = i
	}
	for j := 0; j <= len(rb); j++ {
		table[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				table[i][j] = table[i-1][j-1]
				continue
			}
			table[i][j] = 1 + min(
				table[i-1][j-1], // substitution
				table[i][j-1],   // insertion
				table[i-1][j],   // deletion
			)
		}
	}
	return table[len(ra)][len(rb)]
}

// Similarity returns 1 - Distance(a, b)/max(|a|, |b|). ok is false when
// both strings are empty, which never counts as a match.
func Similarity(a, b string) (score float64, ok bool) {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0, false
	}
	return 1 - float64(Distance(a, b))/float64(longest), true
}

// Comparable reports whether the length guard allows computing edit
// distance between two normalized titles.
func (o Options) Comparable(a, b string) bool {
	gap := utf8.RuneCountInString(a) - utf8.RuneCountInString(b)
	if gap < 0 {
		gap = -gap
	}
	return gap < o.MaxLengthGap
}

// FuzzyMatch reports whether two non-empty normalized titles pass the
// length guard and exceed the similarity threshold.
func (o Options) FuzzyMatch(a, b string) bool {
	if a == "" || b == "" || !o.Comparable(a, b) {
		return false
	}
	score, ok := Similarity(a, b)
	return ok && score > o.SimilarityThreshold
}
