// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"strings"

	"github.com/pdiddy/review-engine/pkg/types"
)

// MatchReason names the signal that paired two references.
type MatchReason string

const (
	MatchNone       MatchReason = ""
	MatchDOI        MatchReason = "doi"
	MatchExactTitle MatchReason = "exact_title"
	MatchFuzzyTitle MatchReason = "fuzzy_title"
)

// Group is one set of duplicate references. Canonical is the anchor that
// opened the group and is the record kept on merge.
type Group struct {
	Canonical  *types.Reference
	Duplicates []*types.Reference

	// Reasons[i] is why Duplicates[i] matched Canonical.
	Reasons []MatchReason
}

// Members returns the canonical record followed by its duplicates.
func (g Group) Members() []*types.Reference {
	out := make([]*types.Reference, 0, len(g.Duplicates)+1)
	out = append(out, g.Canonical)
	return append(out, g.Duplicates...)
}

// Size returns the number of records in the group.
func (g Group) Size() int {
	return len(g.Duplicates) + 1
}

// Match applies the pairwise rule to a and b, in precedence order: equal
// DOIs, identical normalized titles, then fuzzy title similarity. DOIs are
// trimmed of surrounding whitespace and then compared case-insensitively.
func Match(a, b *types.Reference, opts Options) (bool, MatchReason) {
	reason := opts.match(a, b, NormalizeTitle(a.Title), NormalizeTitle(b.Title))
	return reason != MatchNone, reason
}

func (o Options) match(a, b *types.Reference, titleA, titleB string) MatchReason {
	doiA, doiB := normalizeDOI(a.DOI), normalizeDOI(b.DOI)
	if doiA != "" && doiB != "" && strings.EqualFold(doiA, doiB) {
		return MatchDOI
	}
	if titleA == "" || titleB == "" {
		return MatchNone
	}
	if titleA == titleB {
		return MatchExactTitle
	}
	if o.FuzzyMatch(titleA, titleB) {
		return MatchFuzzyTitle
	}
	return MatchNone
}

// BuildGroups partitions candidates into duplicate groups in one pass.
//
// Each unvisited record, in input order, becomes an anchor and is compared
// against every later unvisited record. Matches join the anchor's group and
// are marked visited; they are never compared with each other. A group is
// emitted only when it has at least two members. A record that matches a
// group member but not that group's anchor is left out of the group, and
// since the member is already visited the two are never paired later.
//
// Records already marked duplicate are skipped. The returned groups are in
// anchor order and each group's duplicates are in input order.
func BuildGroups(candidates []*types.Reference, opts Options) []Group {
	titles := make([]string, len(candidates))
	for i, r := range candidates {
		titles[i] = NormalizeTitle(r.Title)
	}

	visited := make([]bool, len(candidates))
	var groups []Group

	for i, anchor := range candidates {
		if visited[i] || anchor.Status == types.StatusDuplicate {
			continue
		}

		g := Group{Canonical: anchor}
		for j := i + 1; j < len(candidates); j++ {
			other := candidates[j]
			if visited[j] || other.Status == types.StatusDuplicate {
				continue
			}
			if reason := opts.match(anchor, other, titles[i], titles[j]); reason != MatchNone {
				g.Duplicates = append(g.Duplicates, other)
				g.Reasons = append(g.Reasons, reason)
				visited[j] = true
			}
		}

		if len(g.Duplicates) > 0 {
			groups = append(groups, g)
			visited[i] = true
		}
	}

	return groups
}

// DuplicateCount returns the number of records the groups would mark.
func DuplicateCount(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Duplicates)
	}
	return n
}
