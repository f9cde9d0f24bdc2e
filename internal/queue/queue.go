// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package queue selects the references waiting for a screening decision.
package queue

import (
	"strings"

	"github.com/pdiddy/review-engine/internal/lifecycle"
	"github.com/pdiddy/review-engine/pkg/types"
)

// Select returns the references awaiting a decision at stage, in input
// order. A non-empty filter keeps only records whose title, abstract, or
// authors contain it, ignoring case. The filter is not trimmed: only ""
// means no filter. Each field is checked on its own.
func Select(refs []*types.Reference, stage types.Stage, filter string) []*types.Reference {
	needle := strings.ToLower(filter)

	var out []*types.Reference
	for _, r := range refs {
		if r == nil || !lifecycle.CanDecide(r, stage) {
			continue
		}
		if needle != "" && !matches(r, needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matches(r *types.Reference, needle string) bool {
	for _, field := range []string{r.Title, r.Abstract, r.Authors} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Current returns the head of the queue, or nil when it is empty.
func Current(refs []*types.Reference, stage types.Stage, filter string) *types.Reference {
	needle := strings.ToLower(filter)
	for _, r := range refs {
		if r == nil || !lifecycle.CanDecide(r, stage) {
			continue
		}
		if needle == "" || matches(r, needle) {
			return r
		}
	}
	return nil
}

// ApplyBulk records d at stage for every selected record and returns how
// many were changed. Records that no longer fit the stage are skipped.
func ApplyBulk(selected []*types.Reference, stage types.Stage, d types.Decision) int {
	applied := 0
	for _, r := range selected {
		if lifecycle.Apply(r, stage, d) {
			applied++
		}
	}
	return applied
}
