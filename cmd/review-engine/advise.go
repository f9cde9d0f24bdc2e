// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/review-engine/internal/advisor"
	"github.com/pdiddy/review-engine/internal/queue"
	"github.com/pdiddy/review-engine/internal/secrets"
	"github.com/pdiddy/review-engine/pkg/types"
)

var adviseCmd = &cobra.Command{
	Use:   "advise [reference-id]",
	Short: "Ask Claude for a screening suggestion",
	Long: `Advise sends a record's metadata and the project's criteria to Claude
and prints the suggested decision with a short justification. Without an ID
it advises on the head of the queue; with --all it advises on the whole
(filtered) queue, up to --limit records. Suggestions are never recorded:
use "screen decide" to act on them.

The API key is read from advisor.api_key in the config, .secrets/anthropic-api-key,
or ANTHROPIC_API_KEY, in that order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdvise,
}

func newAdvisor() (*advisor.ClaudeAdvisor, error) {
	key := secrets.Resolve(cfg.Advisor.APIKey, loadedSecrets, secrets.AnthropicAPIKey)
	client, err := advisor.NewSDKClient(key)
	if err != nil {
		return nil, err
	}
	return advisor.NewClaudeAdvisor(cfg.Advisor, client, zap.L()), nil
}

func runAdvise(cmd *cobra.Command, args []string) error {
	stage, err := stageFlag(cmd)
	if err != nil {
		return err
	}
	filter, _ := cmd.Flags().GetString("filter")
	all, _ := cmd.Flags().GetBool("all")
	limit, _ := cmd.Flags().GetInt("limit")

	adv, err := newAdvisor()
	if err != nil {
		return err
	}

	return withWorkspace(cmd.Context(), readOnly(func(ws *workspace) error {
		var refs []*types.Reference
		switch {
		case len(args) == 1:
			r, err := ws.set.Resolve(args[0])
			if err != nil {
				return err
			}
			refs = []*types.Reference{r}
		case all:
			refs = queue.Select(ws.set.All(), stage, filter)
			if limit > 0 && len(refs) > limit {
				refs = refs[:limit]
			}
		default:
			if r := queue.Current(ws.set.All(), stage, filter); r != nil {
				refs = []*types.Reference{r}
			}
		}

		w := cmd.OutOrStdout()
		if len(refs) == 0 {
			fmt.Fprintln(w, "Nothing to advise on at this stage.")
			return nil
		}

		suggestions, errs, err := advisor.SuggestAll(ws.ctx, adv, ws.project, refs, stage)
		if err != nil {
			return err
		}
		failed := 0
		for i, r := range refs {
			if errs[i] != nil {
				failed++
				fmt.Fprintf(w, "%s %s: %v\n", red("✗"), shortID(r.ID), errs[i])
				continue
			}
			printSuggestion(w, r, suggestions[i])
		}
		if failed == len(refs) {
			return fmt.Errorf("no suggestions received")
		}
		return nil
	}))
}

func printSuggestion(w io.Writer, r *types.Reference, s advisor.Suggestion) {
	fmt.Fprintf(w, "%s  %s\n", bold(shortID(r.ID)), truncate(r.Title, 90))
	fmt.Fprintf(w, "  suggestion: %s\n  %s\n\n", decisionLabel(s.Decision), faint(s.Reasoning))
}

func init() {
	adviseCmd.Flags().String("stage", "ta", "screening stage: ta (title/abstract) or ft (full-text)")
	adviseCmd.Flags().String("filter", "", "case-insensitive text matched against title, abstract, or authors")
	adviseCmd.Flags().Bool("all", false, "advise on every record in the queue")
	adviseCmd.Flags().Int("limit", 20, "maximum records to advise on with --all (0 for no limit)")

	rootCmd.AddCommand(adviseCmd)
}
