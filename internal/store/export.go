// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/review-engine/pkg/types"
)

// Snapshot is a full project dump: metadata plus every reference,
// duplicates included.
type Snapshot struct {
	Project    *types.Project     `json:"project" yaml:"project"`
	References []*types.Reference `json:"references" yaml:"references"`
}

// ExportYAML writes the project snapshot to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, projectID, path string) error {
	snap, err := s.snapshot(ctx, projectID)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the project snapshot to path as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, projectID, path string) error {
	snap, err := s.snapshot(ctx, projectID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) snapshot(ctx context.Context, projectID string) (*Snapshot, error) {
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	set, err := s.LoadReferences(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	refs := set.All()
	if refs == nil {
		refs = []*types.Reference{}
	}
	return &Snapshot{Project: p, References: refs}, nil
}
