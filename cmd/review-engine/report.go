// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/review-engine/internal/export"
	"github.com/pdiddy/review-engine/internal/synthesis"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report the PRISMA flow, bibliometrics, and exports",
}

// --- prisma subcommand ---

var reportPrismaCmd = &cobra.Command{
	Use:   "prisma",
	Short: "Print the PRISMA flow counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return withWorkspace(cmd.Context(), readOnly(func(ws *workspace) error {
			f := synthesis.PRISMA(ws.set.All())
			w := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(f)
			}
			fmt.Fprintf(w, "%s\n", bold("PRISMA flow"))
			fmt.Fprintf(w, "  Records identified              %6d\n", f.Identified)
			fmt.Fprintf(w, "  Duplicates removed              %6d\n", f.Duplicates)
			fmt.Fprintf(w, "  Records after deduplication     %6d\n", f.AfterDedup)
			fmt.Fprintf(w, "  Excluded at title/abstract      %6d\n", f.ExcludedTA)
			fmt.Fprintf(w, "  Full texts assessed             %6d\n", f.Screened)
			fmt.Fprintf(w, "  Excluded at full text           %6d\n", f.ExcludedFull)
			fmt.Fprintf(w, "  Studies included                %s\n", green(fmt.Sprintf("%6d", f.Included)))
			return nil
		}))
	},
}

// --- stats subcommand ---

var reportStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print how many records reached each stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), readOnly(func(ws *workspace) error {
			w := cmd.OutOrStdout()
			counts := synthesis.StageCounts(ws.set.All())
			most := 0
			for _, sc := range counts {
				if sc.Count > most {
					most = sc.Count
				}
			}
			for _, sc := range counts {
				fmt.Fprintf(w, "%-16s %6d  %s\n", sc.Stage, sc.Count, cyan(bar(sc.Count, most, 40)))
			}
			return nil
		}))
	},
}

func bar(n, most, width int) string {
	if most == 0 {
		return ""
	}
	return strings.Repeat("█", n*width/most)
}

// --- biblio subcommand ---

var reportBiblioCmd = &cobra.Command{
	Use:   "biblio",
	Short: "Tally included studies by year, journal, and author",
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")
		return withWorkspace(cmd.Context(), readOnly(func(ws *workspace) error {
			w := cmd.OutOrStdout()
			rep := synthesis.Bibliometrics(ws.set.All(), top)
			if rep.Empty() {
				fmt.Fprintln(w, "No included studies yet.")
				return nil
			}
			printTallies(w, "Publications per year", rep.Years)
			printTallies(w, "Top journals", rep.Journals)
			printTallies(w, "Top authors", rep.Authors)
			return nil
		}))
	},
}

func printTallies(w io.Writer, heading string, ts []synthesis.Tally) {
	fmt.Fprintf(w, "%s\n", bold(heading))
	for _, t := range ts {
		fmt.Fprintf(w, "  %-50s %4d\n", truncate(t.Name, 50), t.Count)
	}
	fmt.Fprintln(w)
}

// --- export subcommand ---

var reportExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export included studies or the whole project",
	Long: `Export writes the included studies as BibTeX (--format bibtex) or CSL-YAML
(--format csl) for Pandoc, or a full project snapshot with every record as YAML
(--format yaml) or JSON (--format json). Snapshots require --out.`,
	RunE: runReportExport,
}

func runReportExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	return withWorkspace(cmd.Context(), readOnly(func(ws *workspace) error {
		switch format {
		case "bibtex", "bib":
			return writeTo(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return export.WriteBibTeX(w, ws.set.All())
			})
		case "csl":
			return writeTo(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return export.WriteCSL(w, ws.set.All())
			})
		case "yaml", "json":
			if out == "" {
				return fmt.Errorf("--out is required for %s snapshots", format)
			}
			var err error
			if format == "yaml" {
				err = ws.store.ExportYAML(ws.ctx, ws.project.ID, out)
			} else {
				err = ws.store.ExportJSON(ws.ctx, ws.project.ID, out)
			}
			if err != nil {
				return err
			}
			zap.L().Info("project exported", zap.String("format", format), zap.String("path", out))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		}
		return fmt.Errorf("unknown format %q: use bibtex, csl, yaml, or json", format)
	}))
}

func init() {
	reportPrismaCmd.Flags().Bool("json", false, "output the counts as JSON")
	reportBiblioCmd.Flags().Int("top", 10, "number of journals and authors to list (0 for all)")
	reportExportCmd.Flags().String("format", "bibtex", "export format: bibtex, csl, yaml, json")
	reportExportCmd.Flags().String("out", "", "output file (default: stdout for bibtex and csl)")

	reportCmd.AddCommand(reportPrismaCmd, reportStatsCmd, reportBiblioCmd, reportExportCmd)
	rootCmd.AddCommand(reportCmd)
}
