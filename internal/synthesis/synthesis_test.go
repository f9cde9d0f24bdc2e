// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/review-engine/pkg/types"
)

func ref(status types.ReferenceStatus, ta types.Decision) *types.Reference {
	r := types.NewReference("id", "p")
	r.Status = status
	r.DecisionTitleAbstract = ta
	return r
}

func reviewFixture() []*types.Reference {
	return []*types.Reference{
		ref(types.StatusImported, types.DecisionPending),
		ref(types.StatusDuplicate, types.DecisionPending),
		ref(types.StatusDuplicate, types.DecisionInclude),
		ref(types.StatusExcluded, types.DecisionExclude),
		ref(types.StatusExcluded, types.DecisionUncertain),
		ref(types.StatusScreeningFullText, types.DecisionInclude),
		ref(types.StatusExcluded, types.DecisionInclude),
		ref(types.StatusIncluded, types.DecisionInclude),
		ref(types.StatusIncluded, types.DecisionInclude),
	}
}

func TestPRISMA(t *testing.T) {
	got := PRISMA(reviewFixture())
	assert.Equal(t, Flow{
		Identified:   9,
		AfterDedup:   7,
		Screened:     5,
		Included:     2,
		Duplicates:   2,
		ExcludedTA:   2,
		ExcludedFull: 1,
	}, got)

	assert.Equal(t, Flow{}, PRISMA(nil))
}

func TestStageCounts(t *testing.T) {
	got := StageCounts(reviewFixture())
	assert.Equal(t, []StageCount{
		{Stage: "imported", Count: 9},
		{Stage: "title_abstract", Count: 6},
		{Stage: "full_text", Count: 4},
		{Stage: "included", Count: 2},
	}, got)
}

func included(year, journal, authors string) *types.Reference {
	r := ref(types.StatusIncluded, types.DecisionInclude)
	r.Year = year
	r.Journal = journal
	r.Authors = authors
	return r
}

func TestBibliometrics(t *testing.T) {
	excluded := included("1999", "Ignored Journal", "Ghost, G.")
	excluded.Status = types.StatusExcluded

	refs := []*types.Reference{
		included("2021", "Nature", "Smith, J.; Doe, Jane"),
		included(" 2019 ", "Nature", "Smith & Lee"),
		included("2021", "BMJ", "Lee and Smith"),
		included("2021/05", "AB", ""),
		included("n.d.", "", "Doe, Jane"),
		excluded,
	}

	got := Bibliometrics(refs, 10)
	assert.Equal(t, []Tally{{"2019", 1}, {"2021", 2}}, got.Years)
	assert.Equal(t, []Tally{{"Nature", 2}, {"BMJ", 1}}, got.Journals)
	// "J." is dropped as an initial; ties are broken by name.
	assert.Equal(t, []Tally{{"Smith", 3}, {"Doe", 2}, {"Jane", 2}, {"Lee", 2}}, got.Authors)
	assert.False(t, got.Empty())
}

func TestBibliometricsTopLimit(t *testing.T) {
	var refs []*types.Reference
	for i := range 15 {
		refs = append(refs, included("2020", fmt.Sprintf("Journal %02d", i), ""))
	}
	refs = append(refs, included("2020", "Journal 14", ""))

	got := Bibliometrics(refs, 10)
	assert.Len(t, got.Journals, 10)
	assert.Equal(t, Tally{"Journal 14", 2}, got.Journals[0])
	assert.Equal(t, Tally{"Journal 00", 1}, got.Journals[1])

	assert.Len(t, Bibliometrics(refs, 0).Journals, 15)
}

func TestBibliometricsEmpty(t *testing.T) {
	got := Bibliometrics([]*types.Reference{ref(types.StatusImported, types.DecisionPending)}, 10)
	assert.True(t, got.Empty())
}
