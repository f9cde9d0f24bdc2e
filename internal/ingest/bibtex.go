// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"regexp"
	"strings"

	"github.com/pdiddy/review-engine/pkg/types"
)

// bibEntryStart matches the opening of an entry such as "@article{".
var bibEntryStart = regexp.MustCompile(`@(\w+)\s*\{`)

// bibSkip lists entry types that carry no bibliographic record.
var bibSkip = map[string]bool{"comment": true, "string": true, "preamble": true}

var (
	bibAuthorSep  = regexp.MustCompile(`\s+and\s+`)
	bibWhitespace = regexp.MustCompile(`\s+`)
	bibFields     = map[string]*regexp.Regexp{}
)

func init() {
	// Values are {braced} with up to two levels of nesting, "quoted", or bare.
	for _, name := range []string{"title", "author", "year", "journal", "booktitle", "abstract", "doi"} {
		bibFields[name] = regexp.MustCompile(`(?i)(?:^|[,\s{])` + name +
			`\s*=\s*(?:\{((?:[^{}]|\{(?:[^{}]|\{[^{}]*\})*\})*)\}|"([^"]*)"|([^,\s}]+))`)
	}
}

// ParseBibTeX parses BibTeX entries. @comment, @string, and @preamble
// blocks are skipped, as are entries without a title. Braces are stripped
// from values and "and"-separated authors are joined with "; ".
func ParseBibTeX(content, projectID string) []*types.Reference {
	starts := bibEntryStart.FindAllStringSubmatchIndex(content, -1)

	var refs []*types.Reference
	for i, loc := range starts {
		end := len(content)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		kind := strings.ToLower(content[loc[2]:loc[3]])
		if bibSkip[kind] {
			continue
		}
		body := content[loc[1]:end]

		title := bibField(body, "title")
		if title == "" {
			continue
		}
		r := newReference(projectID, title)

		if authors := bibField(body, "author"); authors != "" {
			r.Authors = strings.Join(bibAuthorSep.Split(authors, -1), "; ")
		}
		r.Year = bibField(body, "year")
		r.Journal = bibField(body, "journal")
		if r.Journal == "" {
			r.Journal = bibField(body, "booktitle")
		}
		r.Abstract = bibField(body, "abstract")
		r.DOI = NormalizeDOI(bibField(body, "doi"))
		refs = append(refs, r)
	}
	return refs
}

func bibField(body, name string) string {
	m := bibFields[name].FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	v := m[1]
	if v == "" {
		v = m[2]
	}
	if v == "" {
		v = m[3]
	}
	v = strings.NewReplacer("{", "", "}", "").Replace(v)
	return strings.TrimSpace(bibWhitespace.ReplaceAllString(v, " "))
}
