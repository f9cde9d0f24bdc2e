package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/pdiddy/review-engine/pkg/types"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

const shortIDLen = 6

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func statusLabel(s types.ReferenceStatus) string {
	switch s {
	case types.StatusIncluded:
		return green(string(s))
	case types.StatusExcluded:
		return red(string(s))
	case types.StatusDuplicate:
		return faint(string(s))
	case types.StatusScreeningFullText:
		return cyan(string(s))
	}
	return string(s)
}

func decisionLabel(d types.Decision) string {
	switch d {
	case types.DecisionInclude:
		return green(string(d))
	case types.DecisionExclude:
		return red(string(d))
	case types.DecisionUncertain:
		return yellow(string(d))
	}
	return faint(string(d))
}

// printReferenceTable lists refs one per line. Status is the last column so
// its color codes do not disturb the padding.
func printReferenceTable(w io.Writer, refs []*types.Reference) {
	fmt.Fprintf(w, "%-6s  %-4s  %-24s  %-60s  %s\n", "ID", "Year", "Authors", "Title", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for _, r := range refs {
		fmt.Fprintf(w, "%-6s  %-4s  %-24s  %-60s  %s\n",
			shortID(r.ID), r.Year, truncate(r.Authors, 24), truncate(r.Title, 60), statusLabel(r.Status))
	}
	fmt.Fprintf(w, "\n%d references\n", len(refs))
}

// printReference shows one record in full.
func printReference(w io.Writer, r *types.Reference) {
	fmt.Fprintf(w, "%s  %s\n", bold(shortID(r.ID)), bold(r.Title))
	if r.Authors != "" {
		fmt.Fprintf(w, "  Authors:  %s\n", r.Authors)
	}
	if r.Year != "" || r.Journal != "" {
		fmt.Fprintf(w, "  Source:   %s %s\n", r.Journal, r.Year)
	}
	if r.DOI != "" {
		fmt.Fprintf(w, "  DOI:      %s\n", r.DOI)
	}
	if r.AttachmentName != "" {
		fmt.Fprintf(w, "  Full text: %s\n", r.AttachmentName)
	}
	fmt.Fprintf(w, "  Status:   %s  (title/abstract: %s, full-text: %s)\n",
		statusLabel(r.Status), decisionLabel(r.DecisionTitleAbstract), decisionLabel(r.DecisionFullText))
	if r.Abstract != "" {
		fmt.Fprintf(w, "\n%s\n", r.Abstract)
	}
}

// writeTo calls write with the file at path, or with the command's stdout
// when path is empty.
func writeTo(w io.Writer, path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(w)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
