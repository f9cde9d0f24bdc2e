// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes included studies as BibTeX or CSL-YAML so they can
// be cited from Pandoc or a reference manager.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/review-engine/internal/dedup"
	"github.com/pdiddy/review-engine/pkg/types"
)

// Included returns the references with status included, in order.
func Included(refs []*types.Reference) []*types.Reference {
	var out []*types.Reference
	for _, r := range refs {
		if r.Status == types.StatusIncluded {
			out = append(out, r)
		}
	}
	return out
}

// SplitAuthors breaks an author string into individual names. Names are
// separated by ";" or " and ". Without either, a string with a single comma
// is one "Surname, Given" name; otherwise commas separate names.
func SplitAuthors(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var parts []string
	switch {
	case strings.Contains(s, ";"):
		parts = strings.Split(s, ";")
	case strings.Contains(s, " and "):
		parts = strings.Split(s, " and ")
	case strings.Count(s, ",") == 1:
		parts = []string{s}
	default:
		parts = strings.Split(s, ",")
	}

	var names []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// surname returns the family name of a single author.
func surname(name string) string {
	if i := strings.Index(name, ","); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func year(r *types.Reference) (int, bool) {
	y := strings.TrimSpace(r.Year)
	if len(y) < 4 {
		return 0, false
	}
	n, err := strconv.Atoi(y[:4])
	if err != nil {
		return 0, false
	}
	return n, true
}

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// keyPart folds diacritics ("Müller" becomes "muller") and keeps only a-z
// and 0-9.
func keyPart(s string) string {
	folded, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		folded = s
	}
	return dedup.NormalizeTitle(folded)
}

// baseKey builds Surname+Year, e.g. "Smith2021". Diacritics and punctuation
// are dropped. Missing parts fall back to "Anon" and "nd".
func baseKey(r *types.Reference) string {
	name := "anon"
	if authors := SplitAuthors(r.Authors); len(authors) > 0 {
		if s := keyPart(surname(authors[0])); s != "" {
			name = s
		}
	}
	first, size := utf8.DecodeRuneInString(name)
	key := string(unicode.ToUpper(first)) + name[size:]

	if y, ok := year(r); ok {
		return key + strconv.Itoa(y)
	}
	return key + "nd"
}

// CitationKeys assigns a key to every reference, in order. Keys that would
// collide all get a letter suffix: Smith2021a, Smith2021b.
func CitationKeys(refs []*types.Reference) []string {
	keys := make([]string, len(refs))
	counts := map[string]int{}
	for i, r := range refs {
		keys[i] = baseKey(r)
		counts[keys[i]]++
	}

	next := map[string]int{}
	for i, k := range keys {
		if counts[k] < 2 {
			continue
		}
		keys[i] = k + suffix(next[k])
		next[k]++
	}
	return keys
}

// suffix maps 0, 1, ... 25, 26 to a, b, ... z, aa.
func suffix(n int) string {
	s := ""
	for {
		s = string(rune('a'+n%26)) + s
		n = n/26 - 1
		if n < 0 {
			return s
		}
	}
}

// WriteBibTeX writes an @article entry per included reference.
func WriteBibTeX(w io.Writer, refs []*types.Reference) error {
	included := Included(refs)
	keys := CitationKeys(included)

	var b strings.Builder
	for i, r := range included {
		fmt.Fprintf(&b, "@article{%s,\n", keys[i])
		fmt.Fprintf(&b, "  title = {%s},\n", r.Title)
		if authors := SplitAuthors(r.Authors); len(authors) > 0 {
			fmt.Fprintf(&b, "  author = {%s},\n", strings.Join(authors, " and "))
		}
		if y, ok := year(r); ok {
			fmt.Fprintf(&b, "  year = {%d},\n", y)
		}
		if r.Journal != "" {
			fmt.Fprintf(&b, "  journal = {%s},\n", r.Journal)
		}
		if r.DOI != "" {
			fmt.Fprintf(&b, "  doi = {%s},\n", r.DOI)
		}
		fmt.Fprintf(&b, "}\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
