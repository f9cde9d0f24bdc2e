// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/review-engine/internal/ingest"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import references from RIS, BibTeX, or CSV exports",
	Long: `Import parses bibliographic export files and appends their records to
the active project with status imported and both decisions pending. The
format is taken from the file extension (.ris, .bib, .csv) or sniffed from
the content. Files are parsed concurrently; a file that fails to parse is
reported and the others are still imported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	return withWorkspace(cmd.Context(), func(ws *workspace) (bool, error) {
		summary, refs, err := ingest.ImportFiles(ws.ctx, ws.project.ID, args, zap.L())
		if err != nil {
			return false, err
		}

		w := cmd.OutOrStdout()
		for _, f := range summary.Files {
			if f.Err != nil {
				fmt.Fprintf(w, "  %s %s: %v\n", red("✗"), f.Path, f.Err)
				continue
			}
			fmt.Fprintf(w, "  %s %s: %d references (%s)\n", green("✓"), f.Path, f.Count, f.Format)
		}

		if _, err := ws.set.AddAll(refs); err != nil {
			return false, err
		}
		fmt.Fprintf(w, "\nImported %d references", summary.Imported)
		if summary.Failed > 0 {
			fmt.Fprintf(w, ", %s", red(fmt.Sprintf("%d file(s) failed", summary.Failed)))
		}
		fmt.Fprintln(w)

		if summary.Imported == 0 && summary.Failed > 0 {
			return false, fmt.Errorf("no references imported")
		}
		return summary.Imported > 0, nil
	})
}

func init() {
	rootCmd.AddCommand(importCmd)
}
