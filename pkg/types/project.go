// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// FieldType declares how an extraction field's values are typed.
type FieldType string

const (
	FieldText    FieldType = "text"
	FieldNumber  FieldType = "number"
	FieldSelect  FieldType = "select"
	FieldBoolean FieldType = "boolean"
)

// Valid reports whether t is a supported field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldSelect, FieldBoolean:
		return true
	}
	return false
}

// ExtractionField is one column of a project's data-extraction matrix.
type ExtractionField struct {
	ID    string    `json:"id" yaml:"id"`
	Label string    `json:"label" yaml:"label"`
	Type  FieldType `json:"type" yaml:"type"`

	// Options lists the allowed values for select fields.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// ExtractionValue is a tagged value. Type selects which of Text, Number, or
// Bool carries the payload; select fields store the chosen option in Text.
type ExtractionValue struct {
	Type   FieldType `json:"type" yaml:"type"`
	Text   string    `json:"text,omitempty" yaml:"text,omitempty"`
	Number float64   `json:"number,omitempty" yaml:"number,omitempty"`
	Bool   bool      `json:"bool,omitempty" yaml:"bool,omitempty"`
}

// Project is a single systematic review. References are stored separately,
// keyed by the project ID.
type Project struct {
	ID                string            `json:"id" yaml:"id"`
	Title             string            `json:"title" yaml:"title"`
	Description       string            `json:"description" yaml:"description"`
	ResearchQuestion  string            `json:"research_question" yaml:"research_question"`
	InclusionCriteria string            `json:"inclusion_criteria" yaml:"inclusion_criteria"`
	ExclusionCriteria string            `json:"exclusion_criteria" yaml:"exclusion_criteria"`
	ExtractionSchema  []ExtractionField `json:"extraction_schema" yaml:"extraction_schema"`
	CreatedAt         time.Time         `json:"created_at" yaml:"created_at"`
}

// Field returns the schema field with the given ID.
func (p *Project) Field(id string) (ExtractionField, bool) {
	for _, f := range p.ExtractionSchema {
		if f.ID == id {
			return f, true
		}
	}
	return ExtractionField{}, false
}
