// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"regexp"
	"strings"

	"github.com/pdiddy/review-engine/pkg/types"
)

// risLine matches a tagged RIS line such as "TI  - Title".
var risLine = regexp.MustCompile(`^([A-Z][A-Z0-9])\s{1,2}-\s?(.*)$`)

// ParseRIS parses RIS records. Entries end at an ER tag or end of input.
// Entries without a TI or T1 title are dropped. Repeated AU/A1 tags are
// joined with "; ".
func ParseRIS(content, projectID string) []*types.Reference {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var refs []*types.Reference
	tags := map[string][]string{}

	flush := func() {
		if len(tags) == 0 {
			return
		}
		if r := risReference(tags, projectID); r != nil {
			refs = append(refs, r)
		}
		tags = map[string][]string{}
	}

	for _, line := range strings.Split(content, "\n") {
		m := risLine.FindStringSubmatch(strings.TrimRight(line, " \t"))
		if m == nil {
			continue
		}
		tag, value := m[1], strings.TrimSpace(m[2])
		if tag == "ER" {
			flush()
			continue
		}
		if value != "" {
			tags[tag] = append(tags[tag], value)
		}
	}
	flush()

	return refs
}

func risReference(tags map[string][]string, projectID string) *types.Reference {
	first := func(names ...string) string {
		for _, n := range names {
			if v := tags[n]; len(v) > 0 {
				return v[0]
			}
		}
		return ""
	}

	title := first("TI", "T1")
	if title == "" {
		return nil
	}

	r := newReference(projectID, title)

	authors := tags["AU"]
	if len(authors) == 0 {
		authors = tags["A1"]
	}
	r.Authors = strings.Join(authors, "; ")

	year := first("PY", "Y1")
	if len(year) > 4 {
		year = year[:4]
	}
	r.Year = year
	r.Journal = first("JO", "T2", "JF")
	r.Abstract = first("AB", "N2")
	r.DOI = NormalizeDOI(first("DO"))
	return r
}
