package export

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/review-engine/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names follow the CSL-JSON/CSL-YAML schema so that output
// is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id" json:"id"`
	Type           string    `yaml:"type" json:"type"`
	Title          string    `yaml:"title" json:"title"`
	Author         []CSLName `yaml:"author,omitempty" json:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty" json:"container-title,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty" json:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty" json:"DOI,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty" json:"family,omitempty"`
	Given   string `yaml:"given,omitempty" json:"given,omitempty"`
	Literal string `yaml:"literal,omitempty" json:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts" json:"date-parts"`
}

// WriteCSL writes included references as a CSL-YAML list to w. Item IDs are
// the same citation keys WriteBibTeX uses.
func WriteCSL(w io.Writer, refs []*types.Reference) error {
	included := Included(refs)
	keys := CitationKeys(included)

	items := make([]CSLItem, len(included))
	for i, r := range included {
		items[i] = toCSLItem(keys[i], r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(key string, r *types.Reference) CSLItem {
	item := CSLItem{
		ID:             key,
		Type:           "article-journal",
		Title:          r.Title,
		ContainerTitle: r.Journal,
		Abstract:       r.Abstract,
		DOI:            r.DOI,
	}
	for _, a := range SplitAuthors(r.Authors) {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	if y, ok := year(r); ok {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}
	return item
}

// parseAuthorName splits a name into CSL family/given parts. "Surname, Given"
// splits on the comma; "Given Surname" splits on the last space. Single-token
// names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if i := strings.Index(name, ","); i >= 0 {
		return CSLName{
			Family: strings.TrimSpace(name[:i]),
			Given:  strings.TrimSpace(name[i+1:]),
		}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
