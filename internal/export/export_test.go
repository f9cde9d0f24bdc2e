// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/review-engine/pkg/types"
)

func includedRef(id, title, authors, year, journal, doi string) *types.Reference {
	r := types.NewReference(id, "p")
	r.Status = types.StatusIncluded
	r.Title = title
	r.Authors = authors
	r.Year = year
	r.Journal = journal
	r.DOI = doi
	return r
}

func TestSplitAuthors(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"Smith, John", []string{"Smith, John"}},
		{"Smith, John; Doe, Jane", []string{"Smith, John", "Doe, Jane"}},
		{"John Smith and Jane Doe", []string{"John Smith", "Jane Doe"}},
		{"Smith J, Doe J, Lee K", []string{"Smith J", "Doe J", "Lee K"}},
		{"Vaswani", []string{"Vaswani"}},
		{" ; Smith, J.;", []string{"Smith, J."}},
	}
	for _, tt := range tests {
		got := SplitAuthors(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitAuthors(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseAuthorName(t *testing.T) {
	tests := []struct {
		in   string
		want CSLName
	}{
		{"Smith, John", CSLName{Family: "Smith", Given: "John"}},
		{"Ashish Vaswani", CSLName{Given: "Ashish", Family: "Vaswani"}},
		{"Edison", CSLName{Literal: "Edison"}},
		{"  ", CSLName{}},
	}
	for _, tt := range tests {
		if got := parseAuthorName(tt.in); got != tt.want {
			t.Errorf("parseAuthorName(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestCitationKeys(t *testing.T) {
	refs := []*types.Reference{
		includedRef("1", "A", "Smith, John", "2021", "", ""),
		includedRef("2", "B", "Müller, K.", "2020-05", "", ""),
		includedRef("3", "C", "John Smith and Jane Doe", "2021", "", ""),
		includedRef("4", "D", "", "", "", ""),
		includedRef("5", "E", "Lee, K.", "2019", "", ""),
		includedRef("6", "F", "Smith, A.", "2021", "", ""),
	}
	got := CitationKeys(refs)
	want := []string{"Smith2021a", "Muller2020", "Smith2021b", "Anonnd", "Lee2019", "Smith2021c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CitationKeys = %q, want %q", got, want)
	}
}

func TestSuffix(t *testing.T) {
	for n, want := range map[int]string{0: "a", 1: "b", 25: "z", 26: "aa", 27: "ab"} {
		if got := suffix(n); got != want {
			t.Errorf("suffix(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestWriteBibTeX(t *testing.T) {
	excluded := includedRef("x", "Excluded Study", "Nobody, N.", "2000", "", "")
	excluded.Status = types.StatusExcluded

	refs := []*types.Reference{
		includedRef("1", "Attention Is All You Need", "Ashish Vaswani and Noam Shazeer", "2017", "NeurIPS", "10.5555/3295222"),
		excluded,
		includedRef("2", "Untitled Preprint", "", "", "", ""),
	}

	var buf bytes.Buffer
	if err := WriteBibTeX(&buf, refs); err != nil {
		t.Fatalf("WriteBibTeX: %v", err)
	}

	want := `@article{Vaswani2017,
  title = {Attention Is All You Need},
  author = {Ashish Vaswani and Noam Shazeer},
  year = {2017},
  journal = {NeurIPS},
  doi = {10.5555/3295222},
}

@article{Anonnd,
  title = {Untitled Preprint},
}

`
	if got := buf.String(); got != want {
		t.Errorf("WriteBibTeX output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteCSL(t *testing.T) {
	refs := []*types.Reference{
		includedRef("1", "Deep Learning for Cancer Detection", "Smith, John; Doe, Jane", "2021", "Journal of Oncology", "10.1/abc"),
		includedRef("2", "Single Author", "Edison", "n.d.", "", ""),
	}
	refs[0].Abstract = "We apply deep learning."

	var buf bytes.Buffer
	if err := WriteCSL(&buf, refs); err != nil {
		t.Fatalf("WriteCSL: %v", err)
	}

	var items []CSLItem
	if err := yaml.Unmarshal(buf.Bytes(), &items); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	first := items[0]
	if first.ID != "Smith2021" || first.Type != "article-journal" {
		t.Errorf("first item id/type = %q/%q", first.ID, first.Type)
	}
	if first.ContainerTitle != "Journal of Oncology" || first.DOI != "10.1/abc" {
		t.Errorf("first item container/doi = %q/%q", first.ContainerTitle, first.DOI)
	}
	wantAuthors := []CSLName{{Family: "Smith", Given: "John"}, {Family: "Doe", Given: "Jane"}}
	if !reflect.DeepEqual(first.Author, wantAuthors) {
		t.Errorf("authors = %+v, want %+v", first.Author, wantAuthors)
	}
	if first.Issued == nil || !reflect.DeepEqual(first.Issued.DateParts, [][]int{{2021}}) {
		t.Errorf("issued = %+v, want [[2021]]", first.Issued)
	}

	second := items[1]
	if second.Issued != nil {
		t.Errorf("non-numeric year should omit issued, got %+v", second.Issued)
	}
	if !strings.Contains(buf.String(), "literal: Edison") {
		t.Error("single-token author should use the literal field")
	}
}
