// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/review-engine/internal/lifecycle"
	"github.com/pdiddy/review-engine/internal/queue"
	"github.com/pdiddy/review-engine/pkg/types"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen references at the title/abstract or full-text stage",
	Long: `Screen lists the records awaiting a decision at a stage and records
decisions. At the title/abstract stage (--stage ta) an include moves a record
to full-text screening; at the full-text stage (--stage ft) an include marks
it included. Exclude and uncertain exclude the record at either stage.`,
}

func stageFlag(cmd *cobra.Command) (types.Stage, error) {
	s, _ := cmd.Flags().GetString("stage")
	stage, ok := types.ParseStage(s)
	if !ok {
		return "", fmt.Errorf("unknown stage %q: use ta or ft", s)
	}
	return stage, nil
}

func decisionFlag(cmd *cobra.Command) (types.Decision, error) {
	s, _ := cmd.Flags().GetString("decision")
	d, ok := types.ParseDecision(s)
	if !ok || d == types.DecisionPending {
		return "", fmt.Errorf("unknown decision %q: use include, exclude, or uncertain", s)
	}
	return d, nil
}

// --- queue subcommand ---

var screenQueueCmd = &cobra.Command{
	Use:   "queue",
	Short: "List records awaiting a decision",
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := stageFlag(cmd)
		if err != nil {
			return err
		}
		filter, _ := cmd.Flags().GetString("filter")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		return withWorkspace(cmd.Context(), readOnly(func(ws *workspace) error {
			selected := queue.Select(ws.set.All(), stage, filter)
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(selected)
			}
			if len(selected) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty.")
				return nil
			}
			printReferenceTable(cmd.OutOrStdout(), selected)
			return nil
		}))
	},
}

// --- next subcommand ---

var screenNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the record at the head of the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := stageFlag(cmd)
		if err != nil {
			return err
		}
		filter, _ := cmd.Flags().GetString("filter")

		return withWorkspace(cmd.Context(), readOnly(func(ws *workspace) error {
			w := cmd.OutOrStdout()
			r := queue.Current(ws.set.All(), stage, filter)
			if r == nil {
				fmt.Fprintln(w, "Nothing left to screen at this stage.")
				return nil
			}
			remaining := len(queue.Select(ws.set.All(), stage, filter))
			fmt.Fprintf(w, "%s\n\n", faint(fmt.Sprintf("%d remaining", remaining)))
			printReference(w, r)
			return nil
		}))
	},
}

// --- decide subcommand ---

var screenDecideCmd = &cobra.Command{
	Use:   "decide <reference-id>",
	Short: "Record a decision for one record",
	Long: `Decide records a decision for the record whose ID (or unique ID
prefix) is given. A request that does not apply to the record's current
status, such as a full-text decision for a record still at title/abstract,
leaves the record unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runScreenDecide,
}

func runScreenDecide(cmd *cobra.Command, args []string) error {
	stage, err := stageFlag(cmd)
	if err != nil {
		return err
	}
	d, err := decisionFlag(cmd)
	if err != nil {
		return err
	}

	return withWorkspace(cmd.Context(), func(ws *workspace) (bool, error) {
		r, err := ws.set.Resolve(args[0])
		if err != nil {
			return false, err
		}
		w := cmd.OutOrStdout()
		if !lifecycle.Apply(r, stage, d) {
			fmt.Fprintf(w, "%s %s is %s; no %s decision recorded\n",
				yellow("unchanged:"), shortID(r.ID), r.Status, stage)
			return false, nil
		}
		zap.L().Debug("decision recorded",
			zap.String("reference", r.ID), zap.String("stage", string(stage)), zap.String("decision", string(d)))
		fmt.Fprintf(w, "%s %s -> %s\n", shortID(r.ID), decisionLabel(d), statusLabel(r.Status))
		return true, nil
	})
}

// --- bulk subcommand ---

var screenBulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Apply one decision to every record in the (filtered) queue",
	Long: `Bulk selects the queue for --stage, narrowed by --filter, and applies
--decision to each selected record. Without --yes it only reports how many
records would change.`,
	RunE: runScreenBulk,
}

func runScreenBulk(cmd *cobra.Command, args []string) error {
	stage, err := stageFlag(cmd)
	if err != nil {
		return err
	}
	d, err := decisionFlag(cmd)
	if err != nil {
		return err
	}
	filter, _ := cmd.Flags().GetString("filter")
	yes, _ := cmd.Flags().GetBool("yes")

	return withWorkspace(cmd.Context(), func(ws *workspace) (bool, error) {
		selected := queue.Select(ws.set.All(), stage, filter)
		w := cmd.OutOrStdout()
		if !yes {
			fmt.Fprintf(w, "%d record(s) would be marked %s; rerun with --yes to apply\n", len(selected), d)
			return false, nil
		}
		n := queue.ApplyBulk(selected, stage, d)
		zap.L().Info("bulk decision applied",
			zap.String("stage", string(stage)), zap.String("decision", string(d)), zap.Int("count", n))
		fmt.Fprintf(w, "Marked %d record(s) %s\n", n, decisionLabel(d))
		return n > 0, nil
	})
}

func init() {
	for _, c := range []*cobra.Command{screenQueueCmd, screenNextCmd, screenDecideCmd, screenBulkCmd} {
		c.Flags().String("stage", "ta", "screening stage: ta (title/abstract) or ft (full-text)")
	}
	for _, c := range []*cobra.Command{screenQueueCmd, screenNextCmd, screenBulkCmd} {
		c.Flags().String("filter", "", "case-insensitive text matched against title, abstract, or authors")
	}
	screenDecideCmd.Flags().String("decision", "", "include, exclude, or uncertain")
	screenBulkCmd.Flags().String("decision", "", "include, exclude, or uncertain")
	screenBulkCmd.Flags().Bool("yes", false, "apply the decision instead of previewing it")
	screenQueueCmd.Flags().Bool("json", false, "output the queue as JSON")

	screenCmd.AddCommand(screenQueueCmd, screenNextCmd, screenDecideCmd, screenBulkCmd)
	rootCmd.AddCommand(screenCmd)
}
