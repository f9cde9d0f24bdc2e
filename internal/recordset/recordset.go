// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recordset holds a project's working set of references.
// A Set is a dense slice in import order plus an ID index. It is the single
// collection every engine operation receives; the engine keeps no state of
// its own between calls.
package recordset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/review-engine/pkg/types"
)

var (
	// ErrDuplicateID is returned when a record's ID is already present.
	ErrDuplicateID = errors.New("duplicate reference id")

	// ErrMissingID is returned when a record has no ID.
	ErrMissingID = errors.New("reference id is empty")

	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("reference not found")

	// ErrAmbiguous is returned when an ID prefix matches several records.
	ErrAmbiguous = errors.New("reference id prefix is ambiguous")
)

// Set is an ordered, ID-indexed collection of references. Records are never
// removed; duplicates stay addressable for audit.
type Set struct {
	refs  []*types.Reference
	index map[string]int
}

// New builds a Set from refs, preserving their order.
func New(refs ...*types.Reference) (*Set, error) {
	s := &Set{
		refs:  make([]*types.Reference, 0, len(refs)),
		index: make(map[string]int, len(refs)),
	}
	for _, r := range refs {
		if err := s.Add(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends r to the end of the set.
func (s *Set) Add(r *types.Reference) error {
	if r == nil || r.ID == "" {
		return ErrMissingID
	}
	if _, ok := s.index[r.ID]; ok {
		return fmt.Errorf("adding %s: %w", r.ID, ErrDuplicateID)
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[r.ID] = len(s.refs)
	s.refs = append(s.refs, r)
	return nil
}

// AddAll appends every record in refs. It stops at the first failure and
// reports how many were added before it.
func (s *Set) AddAll(refs []*types.Reference) (int, error) {
	for i, r := range refs {
		if err := s.Add(r); err != nil {
			return i, err
		}
	}
	return len(refs), nil
}

// Get returns the record with the given ID.
func (s *Set) Get(id string) (*types.Reference, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return s.refs[i], nil
}

// Resolve finds a record by full ID or by a unique ID prefix, so the short
// IDs shown in listings can be typed back in.
func (s *Set) Resolve(idOrPrefix string) (*types.Reference, error) {
	if i, ok := s.index[idOrPrefix]; ok {
		return s.refs[i], nil
	}
	if idOrPrefix == "" {
		return nil, ErrMissingID
	}
	var found *types.Reference
	for _, r := range s.refs {
		if !strings.HasPrefix(r.ID, idOrPrefix) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%s: %w", idOrPrefix, ErrAmbiguous)
		}
		found = r
	}
	if found == nil {
		return nil, fmt.Errorf("%s: %w", idOrPrefix, ErrNotFound)
	}
	return found, nil
}

// Len returns the number of records, duplicates included.
func (s *Set) Len() int {
	return len(s.refs)
}

// All returns every record in import order. The slice is shared with the
// set; callers may mutate the records but must not reorder the slice.
func (s *Set) All() []*types.Reference {
	return s.refs
}

// Candidates returns the records eligible for duplicate detection: every
// record whose status is not duplicate, in import order.
func (s *Set) Candidates() []*types.Reference {
	out := make([]*types.Reference, 0, len(s.refs))
	for _, r := range s.refs {
		if r.Status != types.StatusDuplicate {
			out = append(out, r)
		}
	}
	return out
}

// Filter returns the records for which keep returns true, in import order.
func (s *Set) Filter(keep func(*types.Reference) bool) []*types.Reference {
	var out []*types.Reference
	for _, r := range s.refs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// SetAttachment records the name of a full-text artifact for id. It does not
// touch status or decisions.
func (s *Set) SetAttachment(id, name string) error {
	r, err := s.Get(id)
	if err != nil {
		return err
	}
	r.AttachmentName = name
	return nil
}
