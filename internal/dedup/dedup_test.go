// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/review-engine/internal/recordset"
	"github.com/pdiddy/review-engine/pkg/types"
)

// --- test helpers ---

func newRef(id, title, doi string) *types.Reference {
	r := types.NewReference(id, "proj")
	r.Title = title
	r.DOI = doi
	return r
}

func groupIDs(groups []Group) [][]string {
	var out [][]string
	for _, g := range groups {
		var ids []string
		for _, m := range g.Members() {
			ids = append(ids, m.ID)
		}
		out = append(out, ids)
	}
	return out
}

// --- normalizer ---

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Deep Learning for Cancer Detection", "deeplearningforcancerdetection"},
		{"Deep Learning for Cancer  Detection.", "deeplearningforcancerdetection"},
		{"  COVID-19: a (systematic) review!  ", "covid19asystematicreview"},
		{"Étude des maladies", "tudedesmaladies"},
		{"Über Lernen", "berlernen"},
		{"α-Synuclein", "synuclein"},
		{"深層学習によるがん検出", ""},
		{"!!! ???", ""},
		{"Tab\tand\nnewline", "tabandnewline"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.in))
		})
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	inputs := []string{
		"Deep Learning for Cancer Detection",
		"Ünïcödé Tïtlé — with dashes",
		"İstanbul Çalışması",
		"42 Things",
		"",
	}
	for _, s := range inputs {
		once := NormalizeTitle(s)
		assert.Equal(t, once, NormalizeTitle(once), "input %q", s)
	}
}

func TestNonASCIILettersAreStripped(t *testing.T) {
	opts := DefaultOptions()

	// "berlernen" vs "uberlernen": similarity is exactly 0.9, not above it.
	ok, reason := Match(newRef("a", "Über Lernen", ""), newRef("b", "Uber Lernen", ""), opts)
	assert.False(t, ok)
	assert.Equal(t, MatchNone, reason)

	// Identical titles in a non-Latin script normalize to "" and never match.
	cjk := "深層学習によるがん検出"
	ok, reason = Match(newRef("a", cjk, ""), newRef("b", cjk, ""), opts)
	assert.False(t, ok)
	assert.Equal(t, MatchNone, reason)
	assert.Empty(t, BuildGroups([]*types.Reference{newRef("a", cjk, ""), newRef("b", cjk, "")}, opts))

	// A shared DOI still groups them.
	ok, reason = Match(newRef("a", cjk, "10.1/x"), newRef("b", cjk, "10.1/X"), opts)
	assert.True(t, ok)
	assert.Equal(t, MatchDOI, reason)
}

// --- similarity scorer ---

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"astudyofcats", "astudyofcaats", 1},
		{"same", "same", 0},
		{"résumé", "resume", 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.a, tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a), "distance must be symmetric")
		})
	}
}

func TestDistanceIdentityIsZero(t *testing.T) {
	for _, s := range []string{"", "a", "deeplearning", "αβγ"} {
		assert.Equal(t, 0, Distance(s, s))
	}
}

func TestSimilarity(t *testing.T) {
	score, ok := Similarity("astudyofcats", "astudyofcaats")
	require.True(t, ok)
	assert.InDelta(t, 1-1.0/13.0, score, 1e-9)

	score, ok = Similarity("abc", "abc")
	require.True(t, ok)
	assert.Equal(t, 1.0, score)

	_, ok = Similarity("", "")
	assert.False(t, ok, "two empty strings are never similar")

	score, ok = Similarity("", "abc")
	require.True(t, ok)
	assert.Equal(t, 0.0, score)
}

func TestComparableLengthGuard(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.Comparable("abc", "abcdefghijkl"))    // gap 9
	assert.False(t, opts.Comparable("abc", "abcdefghijklm"))  // gap 10
	assert.False(t, opts.Comparable("short", NormalizeTitle("A Title With A Length Difference Over Ten Characters")))
}

func TestFuzzyMatchThresholdIsStrict(t *testing.T) {
	opts := DefaultOptions()
	// 20 characters, 2 substitutions: similarity is exactly 0.90.
	a := "abcdefghijklmnopqrst"
	b := "abcdefghijxlmnopqrsz"
	score, _ := Similarity(a, b)
	require.InDelta(t, 0.90, score, 1e-9)
	assert.False(t, opts.FuzzyMatch(a, b))

	// One substitution: 0.95.
	assert.True(t, opts.FuzzyMatch(a, "abcdefghijxlmnopqrst"))
}

func TestOptionsFromConfig(t *testing.T) {
	assert.Equal(t, DefaultOptions(), OptionsFromConfig(types.DedupConfig{}))

	got := OptionsFromConfig(types.DedupConfig{SimilarityThreshold: 0.8, MaxLengthGap: 4})
	assert.Equal(t, Options{SimilarityThreshold: 0.8, MaxLengthGap: 4}, got)
}

// --- pairwise rule ---

func TestMatch(t *testing.T) {
	tests := []struct {
		name       string
		a, b       *types.Reference
		wantMatch  bool
		wantReason MatchReason
	}{
		{
			name:       "doi equal case-insensitively",
			a:          newRef("a", "Machine Learning in Systematic Reviews", "10.1/ABC"),
			b:          newRef("b", "Something else entirely", "10.1/abc"),
			wantMatch:  true,
			wantReason: MatchDOI,
		},
		{
			name:       "doi surrounding whitespace is trimmed",
			a:          newRef("a", "Machine Learning in Systematic Reviews", " 10.1/abc\n"),
			b:          newRef("b", "Something else entirely", "10.1/ABC"),
			wantMatch:  true,
			wantReason: MatchDOI,
		},
		{
			name:       "doi wins over identical titles",
			a:          newRef("a", "Same Title", "10.1/a"),
			b:          newRef("b", "Same Title", "10.1/a"),
			wantMatch:  true,
			wantReason: MatchDOI,
		},
		{
			name:       "different dois fall through to title",
			a:          newRef("a", "Same Title", "10.1/a"),
			b:          newRef("b", "same title.", "10.1/b"),
			wantMatch:  true,
			wantReason: MatchExactTitle,
		},
		{
			name:       "one doi missing uses title",
			a:          newRef("a", "A Study of Cats", "10.1/a"),
			b:          newRef("b", "A Study of Caats", ""),
			wantMatch:  true,
			wantReason: MatchFuzzyTitle,
		},
		{
			name:      "both titles empty never match",
			a:         newRef("a", "", ""),
			b:         newRef("b", "", ""),
			wantMatch: false,
		},
		{
			name:      "punctuation-only titles normalize to empty",
			a:         newRef("a", "???", ""),
			b:         newRef("b", "!!!", ""),
			wantMatch: false,
		},
		{
			name:       "empty title still matches by doi",
			a:          newRef("a", "", "10.9/x"),
			b:          newRef("b", "Real Title", "10.9/X"),
			wantMatch:  true,
			wantReason: MatchDOI,
		},
		{
			name:      "whitespace doi is treated as missing",
			a:         newRef("a", "Alpha", "  "),
			b:         newRef("b", "Omega", "  "),
			wantMatch: false,
		},
		{
			name:      "dissimilar titles",
			a:         newRef("a", "Machine Learning in Systematic Reviews", ""),
			b:         newRef("b", "ML in Systematic Reviews", ""),
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := Match(tt.a, tt.b, DefaultOptions())
			assert.Equal(t, tt.wantMatch, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

// --- cluster builder ---

func TestBuildGroupsScenarios(t *testing.T) {
	tests := []struct {
		name string
		refs []*types.Reference
		want [][]string
	}{
		{
			name: "spacing and punctuation differences",
			refs: []*types.Reference{
				newRef("a", "Deep Learning for Cancer Detection", ""),
				newRef("b", "Deep Learning for Cancer  Detection.", ""),
			},
			want: [][]string{{"a", "b"}},
		},
		{
			name: "shared doi with dissimilar titles",
			refs: []*types.Reference{
				newRef("a", "Machine Learning in Systematic Reviews", "10.1/a"),
				newRef("b", "ML in Systematic Reviews", "10.1/a"),
			},
			want: [][]string{{"a", "b"}},
		},
		{
			name: "one character insertion",
			refs: []*types.Reference{
				newRef("a", "A Study of Cats", ""),
				newRef("b", "A Study of Caats", ""),
			},
			want: [][]string{{"a", "b"}},
		},
		{
			name: "length gap guard",
			refs: []*types.Reference{
				newRef("a", "Short", ""),
				newRef("b", "A Title With A Length Difference Over Ten Characters", ""),
			},
			want: nil,
		},
		{
			name: "no duplicates",
			refs: []*types.Reference{
				newRef("a", "Graph Neural Networks", ""),
				newRef("b", "Protein Folding Revisited", ""),
				newRef("c", "Bayesian Meta-Analysis", ""),
			},
			want: nil,
		},
		{
			name: "multiple groups keep anchor order",
			refs: []*types.Reference{
				newRef("a", "Topic One", ""),
				newRef("b", "Topic Two", ""),
				newRef("c", "topic one", ""),
				newRef("d", "TOPIC TWO!", ""),
				newRef("e", "Topic One.", ""),
			},
			want: [][]string{{"a", "c", "e"}, {"b", "d"}},
		},
		{
			name: "empty titles are not grouped together",
			refs: []*types.Reference{
				newRef("a", "", ""),
				newRef("b", "", ""),
				newRef("c", "", ""),
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildGroups(tt.refs, DefaultOptions())
			assert.Equal(t, tt.want, groupIDs(got))
		})
	}
}

func TestBuildGroupsCanonicalIsFirstInInputOrder(t *testing.T) {
	refs := []*types.Reference{
		newRef("x", "Unrelated", ""),
		newRef("late", "Reinforcement Learning Survey", ""),
		newRef("later", "Reinforcement learning survey.", ""),
	}
	groups := BuildGroups(refs, DefaultOptions())
	require.Len(t, groups, 1)
	assert.Equal(t, "late", groups[0].Canonical.ID)

	// Reversing the order swaps the canonical.
	reversed := []*types.Reference{refs[2], refs[1], refs[0]}
	groups = BuildGroups(reversed, DefaultOptions())
	require.Len(t, groups, 1)
	assert.Equal(t, "later", groups[0].Canonical.ID)
}

func TestBuildGroupsAnchorOnlyComparison(t *testing.T) {
	// a~b and b~c each differ by one substitution (0.95); a~c differ by two (0.90).
	a := newRef("a", "abcdefghij klmnopqrst", "")
	b := newRef("b", "abcdefghij xlmnopqrst", "")
	c := newRef("c", "abcdefghij xlmnopqrsz", "")

	// With a as anchor, c is compared against a only and is left out.
	groups := BuildGroups([]*types.Reference{a, b, c}, DefaultOptions())
	assert.Equal(t, [][]string{{"a", "b"}}, groupIDs(groups))

	// With b as anchor, both neighbours match it.
	groups = BuildGroups([]*types.Reference{b, a, c}, DefaultOptions())
	assert.Equal(t, [][]string{{"b", "a", "c"}}, groupIDs(groups))
}

func TestBuildGroupsRecordsReasons(t *testing.T) {
	refs := []*types.Reference{
		newRef("a", "A Study of Cats", "10.5/cats"),
		newRef("b", "Completely different", "10.5/CATS"),
		newRef("c", "A study of cats", ""),
		newRef("d", "A Study of Caats", ""),
	}
	groups := BuildGroups(refs, DefaultOptions())
	require.Len(t, groups, 1)
	assert.Equal(t, []MatchReason{MatchDOI, MatchExactTitle, MatchFuzzyTitle}, groups[0].Reasons)
	assert.Equal(t, 4, groups[0].Size())
	assert.Equal(t, 3, DuplicateCount(groups))
}

func TestBuildGroupsSkipsDuplicates(t *testing.T) {
	a := newRef("a", "Same", "")
	b := newRef("b", "Same", "")
	b.Status = types.StatusDuplicate
	c := newRef("c", "Same", "")

	groups := BuildGroups([]*types.Reference{a, b, c}, DefaultOptions())
	assert.Equal(t, [][]string{{"a", "c"}}, groupIDs(groups))
}

func TestEqualDOIsAlwaysGrouped(t *testing.T) {
	titles := []string{"", "x", "Totally unrelated words", "Another thing entirely, and quite long too"}
	for _, ta := range titles {
		for _, tb := range titles {
			refs := []*types.Reference{newRef("a", ta, "10.1000/XYZ"), newRef("b", tb, "10.1000/xyz")}
			groups := BuildGroups(refs, DefaultOptions())
			assert.Equal(t, [][]string{{"a", "b"}}, groupIDs(groups), "titles %q / %q", ta, tb)
		}
	}
}

// --- merge ---

func TestMergeGroupIsIdempotent(t *testing.T) {
	a := newRef("a", "Same Title", "")
	b := newRef("b", "Same Title", "")
	c := newRef("c", "same title", "")
	a.Status = types.StatusScreeningFullText
	a.DecisionTitleAbstract = types.DecisionInclude

	set, err := recordset.New(a, b, c)
	require.NoError(t, err)

	groups := BuildGroups(set.Candidates(), DefaultOptions())
	require.Len(t, groups, 1)

	assert.Equal(t, 2, MergeGroup(set, groups[0]))
	assert.Equal(t, types.StatusDuplicate, b.Status)
	assert.Equal(t, types.StatusDuplicate, c.Status)
	assert.Equal(t, types.StatusScreeningFullText, a.Status, "canonical untouched")
	assert.Equal(t, types.DecisionInclude, a.DecisionTitleAbstract)

	assert.Equal(t, 0, MergeGroup(set, groups[0]), "second merge is a no-op")
	assert.Equal(t, types.StatusDuplicate, b.Status)
	assert.Equal(t, types.StatusDuplicate, c.Status)
	assert.Equal(t, types.StatusScreeningFullText, a.Status)

	assert.Empty(t, BuildGroups(set.Candidates(), DefaultOptions()), "merged records leave the candidate set")
	assert.Equal(t, 3, set.Len(), "duplicates are never removed")
}

func TestMergeGroupUsesSetRecords(t *testing.T) {
	a := newRef("a", "Same", "")
	b := newRef("b", "Same", "")
	set, err := recordset.New(a, b)
	require.NoError(t, err)

	// A group built from a stale copy still marks the record held by the set.
	stale := Group{
		Canonical:  newRef("a", "Same", ""),
		Duplicates: []*types.Reference{newRef("b", "Same", ""), newRef("gone", "Same", "")},
	}
	assert.Equal(t, 1, MergeGroup(set, stale))
	assert.Equal(t, types.StatusDuplicate, b.Status)
	assert.Equal(t, types.StatusImported, a.Status)
}

func TestMergeAll(t *testing.T) {
	set, err := recordset.New(
		newRef("a", "One", ""), newRef("b", "Two", ""),
		newRef("c", "one", ""), newRef("d", "two", ""),
	)
	require.NoError(t, err)

	groups := BuildGroups(set.Candidates(), DefaultOptions())
	require.Len(t, groups, 2)
	assert.Equal(t, 2, MergeAll(set, groups))
	assert.Equal(t, 0, MergeAll(set, groups))
	assert.Len(t, set.Candidates(), 2)
}
