// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest turns bibliographic export files (RIS, BibTeX, CSV) into
// freshly imported references. Every record it returns has a unique ID, a
// non-empty title, status imported, and both decisions pending.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/review-engine/pkg/types"
)

// Format identifies a bibliographic file format.
type Format string

const (
	FormatRIS    Format = "ris"
	FormatBibTeX Format = "bibtex"
	FormatCSV    Format = "csv"
)

// maxConcurrentFiles bounds parallel file parsing in ImportFiles.
const maxConcurrentFiles = 4

// newID generates reference IDs. Tests replace it for stable output.
var newID = uuid.NewString

// Detect picks a format from the file extension, falling back to content
// sniffing. Unrecognised content is treated as CSV.
func Detect(name, content string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ris":
		return FormatRIS
	case ".bib", ".bibtex":
		return FormatBibTeX
	case ".csv":
		return FormatCSV
	}

	if strings.Contains(content, "TY  - ") {
		return FormatRIS
	}
	if bibEntryStart.MatchString(content) {
		return FormatBibTeX
	}
	return FormatCSV
}

// Parse dispatches content to the parser for format.
func Parse(format Format, content, projectID string) ([]*types.Reference, error) {
	switch format {
	case FormatRIS:
		return ParseRIS(content, projectID), nil
	case FormatBibTeX:
		return ParseBibTeX(content, projectID), nil
	case FormatCSV:
		return ParseCSV(content, projectID)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// NormalizeDOI strips resolver prefixes and surrounding whitespace from a
// DOI. Case is preserved; comparison is case-insensitive downstream.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	lower := strings.ToLower(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(doi[len(prefix):])
		}
	}
	return doi
}

func newReference(projectID, title string) *types.Reference {
	r := types.NewReference(newID(), projectID)
	r.Title = title
	return r
}

// FileResult reports the outcome of importing one file.
type FileResult struct {
	Path   string
	Format Format
	Count  int
	Err    error
}

// Summary holds counts from an import run.
type Summary struct {
	Files    []FileResult
	Imported int
	Failed   int
}

// ImportFiles reads and parses paths concurrently. References are returned
// in file order, then in the order each file lists them. A file that cannot
// be read or parsed is recorded in the summary and does not stop the others.
// The error is non-nil only when ctx is cancelled.
func ImportFiles(ctx context.Context, projectID string, paths []string, logger *zap.Logger) (Summary, []*types.Reference, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]FileResult, len(paths))
	parsed := make([][]*types.Reference, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFiles)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = FileResult{Path: path}

			data, err := os.ReadFile(path)
			if err != nil {
				results[i].Err = fmt.Errorf("reading %s: %w", path, err)
				return nil
			}
			content := string(data)
			format := Detect(path, content)
			results[i].Format = format

			refs, err := Parse(format, content, projectID)
			if err != nil {
				results[i].Err = fmt.Errorf("parsing %s: %w", path, err)
				return nil
			}
			parsed[i] = refs
			results[i].Count = len(refs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Summary{}, nil, err
	}

	summary := Summary{Files: results}
	var all []*types.Reference
	for i, res := range results {
		if res.Err != nil {
			summary.Failed++
			logger.Warn("import failed", zap.String("file", res.Path), zap.Error(res.Err))
			continue
		}
		logger.Info("file imported",
			zap.String("file", res.Path),
			zap.String("format", string(res.Format)),
			zap.Int("records", res.Count))
		all = append(all, parsed[i]...)
	}
	summary.Imported = len(all)

	return summary, all, nil
}
