// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extraction manages a project's data-extraction schema and the
// typed values recorded against each reference.
package extraction

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pdiddy/review-engine/internal/recordset"
	"github.com/pdiddy/review-engine/pkg/types"
)

var (
	// ErrUnknownField is returned when a field ID is not in the schema.
	ErrUnknownField = errors.New("unknown extraction field")

	// ErrInvalidValue is returned when raw input does not fit the field type.
	ErrInvalidValue = errors.New("invalid extraction value")

	// ErrFieldExists is returned by AddField for a duplicate field ID.
	ErrFieldExists = errors.New("extraction field already exists")
)

// DefaultSchema returns the fields every new project starts with.
func DefaultSchema() []types.ExtractionField {
	return []types.ExtractionField{
		{ID: "methodology", Label: "Methodology", Type: types.FieldSelect, Options: []string{"Quantitative", "Qualitative", "Mixed", "Review"}},
		{ID: "population", Label: "Population", Type: types.FieldText},
		{ID: "results", Label: "Main results", Type: types.FieldText},
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// FieldID derives a field ID from a label: lowercase words joined by "_".
func FieldID(label string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(label), "_"), "_")
}

// AddField appends f to the project schema. An empty ID is derived from the
// label. Select fields need at least one option.
func AddField(p *types.Project, f types.ExtractionField) error {
	if f.ID == "" {
		f.ID = FieldID(f.Label)
	}
	if f.ID == "" {
		return fmt.Errorf("field needs an id or label: %w", ErrInvalidValue)
	}
	if f.Label == "" {
		f.Label = f.ID
	}
	if !f.Type.Valid() {
		return fmt.Errorf("field %s: type %q: %w", f.ID, f.Type, ErrInvalidValue)
	}
	if f.Type == types.FieldSelect && len(f.Options) == 0 {
		return fmt.Errorf("select field %s has no options: %w", f.ID, ErrInvalidValue)
	}
	if _, ok := p.Field(f.ID); ok {
		return fmt.Errorf("%s: %w", f.ID, ErrFieldExists)
	}
	p.ExtractionSchema = append(p.ExtractionSchema, f)
	return nil
}

// RemoveField drops a field from the schema. Values already recorded on
// references are left in place and simply no longer exported.
func RemoveField(p *types.Project, id string) error {
	i := slices.IndexFunc(p.ExtractionSchema, func(f types.ExtractionField) bool { return f.ID == id })
	if i < 0 {
		return fmt.Errorf("%s: %w", id, ErrUnknownField)
	}
	p.ExtractionSchema = slices.Delete(p.ExtractionSchema, i, i+1)
	return nil
}

// Parse validates raw against field and returns the typed value.
func Parse(field types.ExtractionField, raw string) (types.ExtractionValue, error) {
	raw = strings.TrimSpace(raw)
	v := types.ExtractionValue{Type: field.Type}

	switch field.Type {
	case types.FieldText:
		v.Text = raw
	case types.FieldNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return types.ExtractionValue{}, fmt.Errorf("%s: %q is not a finite number: %w", field.ID, raw, ErrInvalidValue)
		}
		v.Number = n
	case types.FieldBoolean:
		switch strings.ToLower(raw) {
		case "true", "yes", "y", "1", "oui":
			v.Bool = true
		case "false", "no", "n", "0", "non":
			v.Bool = false
		default:
			return types.ExtractionValue{}, fmt.Errorf("%s: %q is not a boolean: %w", field.ID, raw, ErrInvalidValue)
		}
	case types.FieldSelect:
		i := slices.IndexFunc(field.Options, func(o string) bool { return strings.EqualFold(o, raw) })
		if i < 0 {
			return types.ExtractionValue{}, fmt.Errorf("%s: %q is not one of %s: %w",
				field.ID, raw, strings.Join(field.Options, ", "), ErrInvalidValue)
		}
		v.Text = field.Options[i]
	default:
		return types.ExtractionValue{}, fmt.Errorf("%s: type %q: %w", field.ID, field.Type, ErrInvalidValue)
	}
	return v, nil
}

// Format renders a value for display and CSV export.
func Format(v types.ExtractionValue) string {
	switch v.Type {
	case types.FieldNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case types.FieldBoolean:
		if v.Bool {
			return "yes"
		}
		return "no"
	}
	return v.Text
}

// Set validates raw for fieldID and stores it on the reference refID.
// Status and decisions are untouched.
func Set(set *recordset.Set, p *types.Project, refID, fieldID, raw string) (types.ExtractionValue, error) {
	field, ok := p.Field(fieldID)
	if !ok {
		return types.ExtractionValue{}, fmt.Errorf("%s: %w", fieldID, ErrUnknownField)
	}
	r, err := set.Get(refID)
	if err != nil {
		return types.ExtractionValue{}, err
	}
	v, err := Parse(field, raw)
	if err != nil {
		return types.ExtractionValue{}, err
	}
	if r.ExtractionData == nil {
		r.ExtractionData = make(map[string]types.ExtractionValue)
	}
	r.ExtractionData[fieldID] = v
	return v, nil
}

// idPrefixLen is how much of a reference ID the matrix shows.
const idPrefixLen = 6

// WriteCSV writes the extraction matrix for every included reference: ID
// prefix, authors, year, title, then one column per schema field.
func WriteCSV(w io.Writer, p *types.Project, refs []*types.Reference) error {
	cw := csv.NewWriter(w)

	header := []string{"ID", "Authors", "Year", "Title"}
	for _, f := range p.ExtractionSchema {
		header = append(header, f.Label)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range refs {
		if r.Status != types.StatusIncluded {
			continue
		}
		id := r.ID
		if len(id) > idPrefixLen {
			id = id[:idPrefixLen]
		}
		row := []string{id, r.Authors, r.Year, r.Title}
		for _, f := range p.ExtractionSchema {
			v, ok := r.ExtractionData[f.ID]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, Format(v))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
