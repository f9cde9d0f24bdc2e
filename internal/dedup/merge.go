// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"github.com/pdiddy/review-engine/internal/lifecycle"
	"github.com/pdiddy/review-engine/internal/recordset"
)

// MergeGroup marks every non-canonical member of g as duplicate in set.
// Members are looked up by ID, so a group computed from an older snapshot
// only touches records that still exist. The canonical record is never
// changed. Re-merging is a no-op. Returns the number of records newly marked.
func MergeGroup(set *recordset.Set, g Group) int {
	if g.Canonical == nil {
		return 0
	}
	marked := 0
	for _, d := range g.Duplicates {
		if d == nil || d.ID == g.Canonical.ID {
			continue
		}
		r, err := set.Get(d.ID)
		if err != nil {
			continue
		}
		if lifecycle.MarkDuplicate(r) {
			marked++
		}
	}
	return marked
}

// MergeAll merges every group and returns the total newly marked.
func MergeAll(set *recordset.Set, groups []Group) int {
	marked := 0
	for _, g := range groups {
		marked += MergeGroup(set, g)
	}
	return marked
}
