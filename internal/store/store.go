// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists review projects and their reference sets in a
// SQLite database. Both tables are key-value: a row per project ID holding
// a JSON payload.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/review-engine/internal/recordset"
	"github.com/pdiddy/review-engine/pkg/types"
)

const defaultPath = "review.db"

var (
	// ErrProjectNotFound is returned when no project has the requested ID.
	ErrProjectNotFound = errors.New("project not found")

	// ErrProjectExists is returned by CreateProject when the ID is taken.
	ErrProjectExists = errors.New("project already exists")
)

// Store manages the review database.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// NewStore opens or creates the database at cfg.Path and creates the
// schema if it does not exist. A nil logger discards log output.
func NewStore(cfg types.StoreConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	path := cfg.Path
	if path == "" {
		path = defaultPath
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("store opened", zap.String("path", path))
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reference_sets (
			project_id TEXT PRIMARY KEY REFERENCES projects(id) ON DELETE CASCADE,
			payload TEXT NOT NULL,
			record_count INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// CreateProject inserts a new project. An empty ID is replaced with a fresh
// UUID and a zero CreatedAt with the current time; p is updated in place.
func (s *Store) CreateProject(ctx context.Context, p *types.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling project: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO projects (id, title, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Title, string(payload), p.CreatedAt.Format(time.RFC3339Nano), now(),
	)
	if err != nil {
		return fmt.Errorf("inserting project %s: %w", p.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", p.ID, ErrProjectExists)
	}

	s.logger.Info("project created", zap.String("project", p.ID), zap.String("title", p.Title))
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SaveProject updates an existing project's metadata and schema.
func (s *Store) SaveProject(ctx context.Context, p *types.Project) error {
	return saveProject(ctx, s.db, p)
}

func saveProject(ctx context.Context, ex execer, p *types.Project) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling project: %w", err)
	}

	res, err := ex.ExecContext(ctx,
		`UPDATE projects SET title = ?, payload = ?, updated_at = ? WHERE id = ?`,
		p.Title, string(payload), now(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", p.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", p.ID, ErrProjectNotFound)
	}
	return nil
}

// GetProject returns the project with the given ID.
func (s *Store) GetProject(ctx context.Context, id string) (*types.Project, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM projects WHERE id = ?`, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrProjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying project %s: %w", id, err)
	}

	var p types.Project
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("decoding project %s: %w", id, err)
	}
	return &p, nil
}

// ListProjects returns every project, oldest first.
func (s *Store) ListProjects(ctx context.Context) ([]*types.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM projects ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*types.Project
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		var p types.Project
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, fmt.Errorf("decoding project: %w", err)
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// DeleteProject removes a project and its reference set.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reference_sets WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("deleting references: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", id, ErrProjectNotFound)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("project deleted", zap.String("project", id))
	return nil
}

// SaveReferences replaces the stored reference set for projectID with the
// contents of set.
func (s *Store) SaveReferences(ctx context.Context, projectID string, set *recordset.Set) error {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return err
	}
	n, err := saveReferences(ctx, s.db, projectID, set)
	if err != nil {
		return err
	}
	s.logger.Debug("references saved", zap.String("project", projectID), zap.Int("records", n))
	return nil
}

// SaveWorkspace writes p and its reference set in one transaction, so
// either both are stored or neither is.
func (s *Store) SaveWorkspace(ctx context.Context, p *types.Project, set *recordset.Set) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveProject(ctx, tx, p); err != nil {
		return err
	}
	n, err := saveReferences(ctx, tx, p.ID, set)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing workspace: %w", err)
	}

	s.logger.Debug("workspace saved", zap.String("project", p.ID), zap.Int("records", n))
	return nil
}

func saveReferences(ctx context.Context, ex execer, projectID string, set *recordset.Set) (int, error) {
	refs := set.All()
	payload, err := json.Marshal(refs)
	if err != nil {
		return 0, fmt.Errorf("marshaling references: %w", err)
	}

	_, err = ex.ExecContext(ctx,
		`INSERT INTO reference_sets (project_id, payload, record_count, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(project_id) DO UPDATE SET
			payload=excluded.payload, record_count=excluded.record_count,
			updated_at=excluded.updated_at`,
		projectID, string(payload), len(refs), now(),
	)
	if err != nil {
		return 0, fmt.Errorf("saving references for %s: %w", projectID, err)
	}
	return len(refs), nil
}

// LoadReferences returns the stored reference set for projectID. A project
// with nothing imported yet yields an empty set.
func (s *Store) LoadReferences(ctx context.Context, projectID string) (*recordset.Set, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM reference_sets WHERE project_id = ?`, projectID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return recordset.New()
	}
	if err != nil {
		return nil, fmt.Errorf("querying references for %s: %w", projectID, err)
	}

	var refs []*types.Reference
	if err := json.Unmarshal([]byte(payload), &refs); err != nil {
		return nil, fmt.Errorf("decoding references for %s: %w", projectID, err)
	}

	set, err := recordset.New(refs...)
	if err != nil {
		return nil, fmt.Errorf("rebuilding reference set for %s: %w", projectID, err)
	}

	s.logger.Debug("references loaded", zap.String("project", projectID), zap.Int("records", set.Len()))
	return set, nil
}
