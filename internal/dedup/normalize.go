// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup finds near-duplicate references and merges confirmed groups.
// Matching uses an exact DOI signal first, then normalized titles compared
// exactly and by bounded Levenshtein similarity. Grouping is a single
// left-to-right pass in which every record is compared against the current
// anchor only; it is not a transitive closure.
package dedup

import "strings"

// NormalizeTitle lowercases title and keeps only the ASCII letters a-z and
// digits 0-9. Everything else is dropped, accented and non-Latin letters
// included, so "Étude" becomes "tude" and a title written wholly in another
// script normalizes to "". The result is idempotent.
func NormalizeTitle(title string) string {
	if title == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeDOI trims whitespace. Case is handled by the comparison.
func normalizeDOI(doi string) string {
	return strings.TrimSpace(doi)
}
