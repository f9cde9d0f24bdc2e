// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the review-engine workflow.
// Covers the reference record and its lifecycle enums, the review project and
// its extraction schema, and the configuration groups loaded by the CLI.
package types

import "strings"

// ReferenceStatus is the lifecycle state of a reference record.
type ReferenceStatus string

const (
	StatusImported               ReferenceStatus = "imported"
	StatusScreeningTitleAbstract ReferenceStatus = "screening_title_abstract"
	StatusScreeningFullText      ReferenceStatus = "screening_full_text"
	StatusIncluded               ReferenceStatus = "included"
	StatusExcluded               ReferenceStatus = "excluded"
	StatusDuplicate              ReferenceStatus = "duplicate"
)

// Valid reports whether s is one of the six lifecycle states.
func (s ReferenceStatus) Valid() bool {
	switch s {
	case StatusImported, StatusScreeningTitleAbstract, StatusScreeningFullText,
		StatusIncluded, StatusExcluded, StatusDuplicate:
		return true
	}
	return false
}

// Decision is a reviewer verdict recorded in one of the two decision slots.
type Decision string

const (
	DecisionPending   Decision = "pending"
	DecisionInclude   Decision = "include"
	DecisionExclude   Decision = "exclude"
	DecisionUncertain Decision = "uncertain"
)

// Valid reports whether d is a known decision value, pending included.
func (d Decision) Valid() bool {
	switch d {
	case DecisionPending, DecisionInclude, DecisionExclude, DecisionUncertain:
		return true
	}
	return false
}

// ParseDecision accepts the canonical names plus the short forms used on the
// command line (i, e, u).
func ParseDecision(s string) (Decision, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "include", "i", "in":
		return DecisionInclude, true
	case "exclude", "e", "ex":
		return DecisionExclude, true
	case "uncertain", "u", "maybe":
		return DecisionUncertain, true
	case "pending":
		return DecisionPending, true
	}
	return "", false
}

// Stage is one of the two screening phases.
type Stage string

const (
	StageTitleAbstract Stage = "title_abstract"
	StageFullText      Stage = "full_text"
)

// ParseStage accepts "title_abstract"/"ta"/"title" and "full_text"/"ft"/"fulltext".
func ParseStage(s string) (Stage, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title_abstract", "ta", "title", "title-abstract":
		return StageTitleAbstract, true
	case "full_text", "ft", "fulltext", "full-text":
		return StageFullText, true
	}
	return "", false
}

// Reference is one bibliographic record moving through the review pipeline.
type Reference struct {
	// ID is assigned at import and never changes.
	ID string `json:"id" yaml:"id"`

	// ProjectID identifies the owning review project.
	ProjectID string `json:"project_id" yaml:"project_id"`

	Title    string `json:"title" yaml:"title"`
	Authors  string `json:"authors" yaml:"authors"`
	Year     string `json:"year" yaml:"year"`
	Journal  string `json:"journal" yaml:"journal"`
	Abstract string `json:"abstract" yaml:"abstract"`

	// DOI is optional. Compared case-insensitively during deduplication.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	Status                ReferenceStatus `json:"status" yaml:"status"`
	DecisionTitleAbstract Decision        `json:"decision_title_abstract" yaml:"decision_title_abstract"`
	DecisionFullText      Decision        `json:"decision_full_text" yaml:"decision_full_text"`

	// AttachmentName names the uploaded full-text artifact, if any.
	AttachmentName string `json:"attachment_name,omitempty" yaml:"attachment_name,omitempty"`

	// ExtractionData maps ExtractionField.ID to a typed value. Only the
	// extraction feature reads or writes it.
	ExtractionData map[string]ExtractionValue `json:"extraction_data,omitempty" yaml:"extraction_data,omitempty"`
}

// NewReference returns a freshly imported record: status imported and both
// decision slots pending.
func NewReference(id, projectID string) *Reference {
	return &Reference{
		ID:                    id,
		ProjectID:             projectID,
		Status:                StatusImported,
		DecisionTitleAbstract: DecisionPending,
		DecisionFullText:      DecisionPending,
	}
}

// StageDecision returns the decision slot belonging to stage.
func (r *Reference) StageDecision(stage Stage) Decision {
	switch stage {
	case StageTitleAbstract:
		return r.DecisionTitleAbstract
	case StageFullText:
		return r.DecisionFullText
	}
	return ""
}
