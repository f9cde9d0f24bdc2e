// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/review-engine/internal/recordset"
	"github.com/pdiddy/review-engine/internal/store"
	"github.com/pdiddy/review-engine/pkg/types"
)

var errNoProject = errors.New("no project selected: pass --project or set project in review-engine.yaml")

// workspace is the active project and its reference set, loaded for the
// duration of one command.
type workspace struct {
	ctx     context.Context
	store   *store.Store
	project *types.Project
	set     *recordset.Set
}

func openStore() (*store.Store, error) {
	return store.NewStore(cfg.Store, zap.L())
}

// resolveProjectID returns the configured project, or the only project in
// the database when none is configured.
func resolveProjectID(ctx context.Context, st *store.Store) (string, error) {
	if cfg.Project != "" {
		return cfg.Project, nil
	}
	projects, err := st.ListProjects(ctx)
	if err != nil {
		return "", err
	}
	if len(projects) == 1 {
		return projects[0].ID, nil
	}
	return "", errNoProject
}

// withWorkspace loads the active project and runs fn. When fn reports a
// change, the project and reference set are saved back together in one
// transaction before returning.
func withWorkspace(ctx context.Context, fn func(ws *workspace) (changed bool, err error)) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := resolveProjectID(ctx, st)
	if err != nil {
		return err
	}
	p, err := st.GetProject(ctx, id)
	if err != nil {
		return err
	}
	set, err := st.LoadReferences(ctx, id)
	if err != nil {
		return err
	}

	ws := &workspace{ctx: ctx, store: st, project: p, set: set}
	changed, err := fn(ws)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := st.SaveWorkspace(ctx, p, set); err != nil {
		return fmt.Errorf("saving workspace: %w", err)
	}
	return nil
}

// readOnly adapts fn for commands that never modify the workspace.
func readOnly(fn func(ws *workspace) error) func(ws *workspace) (bool, error) {
	return func(ws *workspace) (bool, error) {
		return false, fn(ws)
	}
}
