// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/review-engine/pkg/types"
)

// ErrNoTitleColumn is returned when a CSV header has no title column.
var ErrNoTitleColumn = errors.New("csv header has no title column")

// csvColumns maps each reference field to the header keywords that select
// it. A header cell matches when it contains any keyword; the first
// matching cell wins.
var csvColumns = []struct {
	field    string
	keywords []string
}{
	{"title", []string{"title", "titre"}},
	{"authors", []string{"author", "auteur"}},
	{"year", []string{"year", "année", "date"}},
	{"journal", []string{"journal", "source", "revue"}},
	{"abstract", []string{"abstract", "résumé"}},
	{"doi", []string{"doi"}},
}

// ParseCSV parses a CSV export with a header row. Column roles are found by
// keyword (English or French). Rows with an empty title are dropped. An
// input with no data rows yields no references and no error.
func ParseCSV(content, projectID string) ([]*types.Reference, error) {
	content = strings.TrimPrefix(content, "\ufeff")

	cr := csv.NewReader(strings.NewReader(content))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	idx := make(map[string]int, len(csvColumns))
	for _, col := range csvColumns {
		idx[col.field] = headerIndex(header, col.keywords)
	}
	if idx["title"] < 0 {
		return nil, ErrNoTitleColumn
	}

	var refs []*types.Reference
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return refs, fmt.Errorf("reading csv row %d: %w", line, err)
		}

		cell := func(field string) string {
			i := idx[field]
			if i < 0 || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		title := cell("title")
		if title == "" {
			continue
		}
		r := newReference(projectID, title)
		r.Authors = cell("authors")
		r.Year = cell("year")
		r.Journal = cell("journal")
		r.Abstract = cell("abstract")
		r.DOI = NormalizeDOI(cell("doi"))
		refs = append(refs, r)
	}
	return refs, nil
}

func headerIndex(header []string, keywords []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, k := range keywords {
			if strings.Contains(h, k) {
				return i
			}
		}
	}
	return -1
}
