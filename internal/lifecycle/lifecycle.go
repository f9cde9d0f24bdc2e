// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lifecycle is the state machine for a single reference.
//
//	imported ─┐
//	          ├─ title/abstract include ──> screening_full_text ─ full-text include ──> included
//	screening_title_abstract ─┘  │                                  │
//	                             └ exclude|uncertain ─> excluded <──┘ exclude|uncertain
//
// duplicate is an absorbing state entered only through MarkDuplicate.
// Requests that do not fit the current state are no-ops, never errors.
package lifecycle

import "github.com/pdiddy/review-engine/pkg/types"

// Eligible reports whether status admits a decision at stage.
func Eligible(status types.ReferenceStatus, stage types.Stage) bool {
	switch stage {
	case types.StageTitleAbstract:
		return status == types.StatusImported || status == types.StatusScreeningTitleAbstract
	case types.StageFullText:
		return status == types.StatusScreeningFullText
	}
	return false
}

// CanDecide reports whether r is waiting for a decision at stage: its status
// is eligible and the stage's decision slot is still pending.
func CanDecide(r *types.Reference, stage types.Stage) bool {
	return Eligible(r.Status, stage) && r.StageDecision(stage) == types.DecisionPending
}

// Apply records decision d for r at stage and moves r to the resulting
// status. It returns false and leaves r untouched when r is not in a status
// eligible for stage, or when d is not include, exclude, or uncertain.
//
// Uncertain is kept in the decision slot but yields status excluded.
func Apply(r *types.Reference, stage types.Stage, d types.Decision) bool {
	if r == nil || !Eligible(r.Status, stage) {
		return false
	}
	if d != types.DecisionInclude && d != types.DecisionExclude && d != types.DecisionUncertain {
		return false
	}

	switch stage {
	case types.StageTitleAbstract:
		r.DecisionTitleAbstract = d
		if d == types.DecisionInclude {
			r.Status = types.StatusScreeningFullText
		} else {
			r.Status = types.StatusExcluded
		}
	case types.StageFullText:
		r.DecisionFullText = d
		if d == types.DecisionInclude {
			r.Status = types.StatusIncluded
		} else {
			r.Status = types.StatusExcluded
		}
	}
	return true
}

// MarkDuplicate moves r to duplicate. Decisions are kept for audit. It
// returns false if r was already a duplicate.
func MarkDuplicate(r *types.Reference) bool {
	if r == nil || r.Status == types.StatusDuplicate {
		return false
	}
	r.Status = types.StatusDuplicate
	return true
}

// Terminal reports whether no further screening decision can change status.
func Terminal(status types.ReferenceStatus) bool {
	switch status {
	case types.StatusIncluded, types.StatusExcluded, types.StatusDuplicate:
		return true
	}
	return false
}
