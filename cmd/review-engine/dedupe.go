// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/review-engine/internal/dedup"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Find duplicate references",
	Long: `Dedupe groups the project's records that are not yet marked duplicate.
Two records match on equal DOIs, identical normalized titles, or title
similarity above the configured threshold. Each group is led by the first
record imported; use "dedupe merge" to mark the others duplicate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), readOnly(func(ws *workspace) error {
			groups := dedup.BuildGroups(ws.set.Candidates(), dedup.OptionsFromConfig(cfg.Dedup))
			printGroups(cmd.OutOrStdout(), groups)
			return nil
		}))
	},
}

func printGroups(w io.Writer, groups []dedup.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No duplicates found.")
		return
	}
	for i, g := range groups {
		fmt.Fprintf(w, "%s %d  %s %s (%s)\n", bold("Group"), i+1,
			green("keep"), shortID(g.Canonical.ID), truncate(g.Canonical.Title, 80))
		for j, d := range g.Duplicates {
			fmt.Fprintf(w, "          %s %s (%s) %s\n",
				yellow("drop"), shortID(d.ID), truncate(d.Title, 80), faint(g.Reasons[j]))
		}
	}
	fmt.Fprintf(w, "\n%d group(s), %d duplicate(s)\n", len(groups), dedup.DuplicateCount(groups))
}

// --- merge subcommand ---

var dedupeMergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Mark duplicates in one group or in all groups",
	Long: `Merge recomputes the duplicate groups and marks every non-canonical
member duplicate. Pass --group N to merge the Nth group as listed by
"dedupe", or --all to merge every group. Duplicates are kept in the
project and counted in the PRISMA flow.`,
	RunE: runDedupeMerge,
}

func runDedupeMerge(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	n, _ := cmd.Flags().GetInt("group")
	if all == (n > 0) {
		return fmt.Errorf("pass exactly one of --all or --group N")
	}

	return withWorkspace(cmd.Context(), func(ws *workspace) (bool, error) {
		groups := dedup.BuildGroups(ws.set.Candidates(), dedup.OptionsFromConfig(cfg.Dedup))

		var marked int
		if all {
			marked = dedup.MergeAll(ws.set, groups)
		} else {
			if n > len(groups) {
				return false, fmt.Errorf("group %d does not exist: %d group(s) found", n, len(groups))
			}
			marked = dedup.MergeGroup(ws.set, groups[n-1])
		}

		zap.L().Info("merged duplicates", zap.Int("marked", marked), zap.Int("groups", len(groups)))
		fmt.Fprintf(cmd.OutOrStdout(), "Marked %d reference(s) duplicate\n", marked)
		return marked > 0, nil
	})
}

func init() {
	dedupeMergeCmd.Flags().Bool("all", false, "merge every group")
	dedupeMergeCmd.Flags().Int("group", 0, "merge only this group (1-based, as listed)")

	dedupeCmd.AddCommand(dedupeMergeCmd)
	rootCmd.AddCommand(dedupeCmd)
}
