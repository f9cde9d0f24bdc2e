// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/review-engine/pkg/types"
)

func makeRef(id string, status types.ReferenceStatus, title, abstract, authors string) *types.Reference {
	r := types.NewReference(id, "p")
	r.Status = status
	r.Title = title
	r.Abstract = abstract
	r.Authors = authors
	return r
}

func ids(refs []*types.Reference) []string {
	var out []string
	for _, r := range refs {
		out = append(out, r.ID)
	}
	return out
}

func fixture() []*types.Reference {
	decided := makeRef("decided", types.StatusScreeningFullText, "Decided Cancer Paper", "", "")
	decided.DecisionTitleAbstract = types.DecisionInclude

	return []*types.Reference{
		makeRef("a", types.StatusImported, "Deep Learning for Cancer", "We study tumours.", "Smith, J."),
		makeRef("b", types.StatusScreeningTitleAbstract, "Graph Methods", "A cancer cohort.", "Lee, K."),
		makeRef("c", types.StatusDuplicate, "Deep learning for cancer", "", "Smith, J."),
		decided,
		makeRef("e", types.StatusExcluded, "Excluded Work", "", "Smith, J."),
		makeRef("f", types.StatusImported, "Protein Folding", "", "CANCERO, P."),
		makeRef("g", types.StatusIncluded, "Included Work", "", ""),
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		stage  types.Stage
		filter string
		want   []string
	}{
		{"title abstract queue", types.StageTitleAbstract, "", []string{"a", "b", "f"}},
		{"full text queue", types.StageFullText, "", []string{"decided"}},
		{"filter on title", types.StageTitleAbstract, "deep", []string{"a"}},
		{"filter across fields", types.StageTitleAbstract, "cancer", []string{"a", "b", "f"}},
		{"filter is case-insensitive", types.StageTitleAbstract, "SMITH", []string{"a"}},
		{"filter with no match", types.StageTitleAbstract, "zebrafish", nil},
		{"whitespace filter is matched literally", types.StageTitleAbstract, "   ", nil},
		{"unknown stage", types.Stage("other"), "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(fixture(), tt.stage, tt.filter)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSelectFullTextNeedsPendingSlot(t *testing.T) {
	r := makeRef("x", types.StatusScreeningFullText, "T", "", "")
	r.DecisionFullText = types.DecisionInclude
	assert.Empty(t, Select([]*types.Reference{r}, types.StageFullText, ""))
}

func TestSelectFieldsAreMatchedSeparately(t *testing.T) {
	// "cancer" spans title and abstract only when concatenated.
	r := makeRef("x", types.StatusImported, "Lung can", "cer screening", "")
	assert.Empty(t, Select([]*types.Reference{r}, types.StageTitleAbstract, "cancer"))
}

func TestSelectFilterIsNotTrimmed(t *testing.T) {
	refs := []*types.Reference{
		makeRef("x", types.StatusImported, "Elearning platforms", "", ""),
		makeRef("y", types.StatusImported, "Deep learning at scale", "", ""),
	}
	assert.Equal(t, []string{"y"}, ids(Select(refs, types.StageTitleAbstract, " learning")))
	assert.Equal(t, []string{"x", "y"}, ids(Select(refs, types.StageTitleAbstract, "learning")))

	head := Current(refs, types.StageTitleAbstract, " learning")
	require.NotNil(t, head)
	assert.Equal(t, "y", head.ID)
}

func TestCurrent(t *testing.T) {
	refs := fixture()
	head := Current(refs, types.StageTitleAbstract, "")
	require.NotNil(t, head)
	assert.Equal(t, "a", head.ID)

	head = Current(refs, types.StageTitleAbstract, "protein")
	require.NotNil(t, head)
	assert.Equal(t, "f", head.ID)

	assert.Nil(t, Current(refs, types.StageTitleAbstract, "zebrafish"))
	assert.Nil(t, Current(nil, types.StageFullText, ""))
}

func TestCurrentAdvancesAfterDecision(t *testing.T) {
	refs := fixture()
	require.Equal(t, 1, ApplyBulk([]*types.Reference{Current(refs, types.StageTitleAbstract, "")}, types.StageTitleAbstract, types.DecisionExclude))

	head := Current(refs, types.StageTitleAbstract, "")
	require.NotNil(t, head)
	assert.Equal(t, "b", head.ID)
}

func TestApplyBulk(t *testing.T) {
	refs := fixture()
	selected := Select(refs, types.StageTitleAbstract, "cancer")
	require.Len(t, selected, 3)

	assert.Equal(t, 3, ApplyBulk(selected, types.StageTitleAbstract, types.DecisionInclude))
	for _, r := range selected {
		assert.Equal(t, types.StatusScreeningFullText, r.Status)
		assert.Equal(t, types.DecisionInclude, r.DecisionTitleAbstract)
	}

	assert.Empty(t, Select(refs, types.StageTitleAbstract, ""))
	assert.Equal(t, []string{"a", "b", "decided", "f"}, ids(Select(refs, types.StageFullText, "")))

	// The same selection applied again changes nothing.
	assert.Equal(t, 0, ApplyBulk(selected, types.StageTitleAbstract, types.DecisionExclude))
}

func TestApplyBulkSkipsIneligible(t *testing.T) {
	refs := fixture()
	// Pass the whole list rather than a selection.
	n := ApplyBulk(refs, types.StageTitleAbstract, types.DecisionUncertain)
	assert.Equal(t, 3, n)
	assert.Equal(t, types.StatusDuplicate, refs[2].Status)
	assert.Equal(t, types.StatusIncluded, refs[6].Status)
	assert.Equal(t, types.StatusExcluded, refs[0].Status)
	assert.Equal(t, types.DecisionUncertain, refs[0].DecisionTitleAbstract)
}

func TestApplyBulkPendingIsNoop(t *testing.T) {
	refs := fixture()
	assert.Equal(t, 0, ApplyBulk(refs, types.StageTitleAbstract, types.DecisionPending))
}
