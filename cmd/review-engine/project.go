// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/review-engine/internal/extraction"
	"github.com/pdiddy/review-engine/internal/synthesis"
	"github.com/pdiddy/review-engine/pkg/types"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create, list, and inspect review projects",
}

// --- create subcommand ---

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a review project",
	Long: `Create registers a new review project with the default extraction
schema (methodology, population, main results) and prints its ID.`,
	RunE: runProjectCreate,
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		return fmt.Errorf("--title is required")
	}
	p := &types.Project{Title: title, ExtractionSchema: extraction.DefaultSchema()}
	p.Description, _ = cmd.Flags().GetString("description")
	p.ResearchQuestion, _ = cmd.Flags().GetString("question")
	p.InclusionCriteria, _ = cmd.Flags().GetString("include")
	p.ExclusionCriteria, _ = cmd.Flags().GetString("exclude")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.CreateProject(cmd.Context(), p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", bold(p.Title), p.ID)
	return nil
}

// --- list subcommand ---

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List review projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		projects, err := st.ListProjects(cmd.Context())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(projects) == 0 {
			fmt.Fprintln(w, "No projects. Create one with: review-engine project create --title ...")
			return nil
		}
		for _, p := range projects {
			marker := " "
			if p.ID == cfg.Project {
				marker = green("*")
			}
			fmt.Fprintf(w, "%s %s  %s  %s\n", marker, p.ID, p.CreatedAt.Format("2006-01-02"), p.Title)
		}
		return nil
	},
}

// --- show subcommand ---

var projectShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active project, its criteria, and stage counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), readOnly(func(ws *workspace) error {
			w := cmd.OutOrStdout()
			p := ws.project
			fmt.Fprintf(w, "%s\n%s\n\n", bold(p.Title), faint(p.ID))
			if p.Description != "" {
				fmt.Fprintf(w, "%s\n\n", p.Description)
			}
			fmt.Fprintf(w, "Research question:  %s\n", p.ResearchQuestion)
			fmt.Fprintf(w, "Inclusion criteria: %s\n", p.InclusionCriteria)
			fmt.Fprintf(w, "Exclusion criteria: %s\n\n", p.ExclusionCriteria)
			for _, sc := range synthesis.StageCounts(ws.set.All()) {
				fmt.Fprintf(w, "  %-16s %d\n", sc.Stage, sc.Count)
			}
			return nil
		}))
	},
}

// --- criteria subcommand ---

var projectCriteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Update the research question and eligibility criteria",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(ws *workspace) (bool, error) {
			changed := false
			for flag, dst := range map[string]*string{
				"title":       &ws.project.Title,
				"description": &ws.project.Description,
				"question":    &ws.project.ResearchQuestion,
				"include":     &ws.project.InclusionCriteria,
				"exclude":     &ws.project.ExclusionCriteria,
			} {
				if cmd.Flags().Changed(flag) {
					*dst, _ = cmd.Flags().GetString(flag)
					changed = true
				}
			}
			if !changed {
				return false, fmt.Errorf("nothing to update: pass at least one of --title, --description, --question, --include, --exclude")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", bold(ws.project.Title))
			return true, nil
		})
	},
}

// --- delete subcommand ---

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project and all of its references",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteProject(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
		return nil
	},
}

func addProjectFields(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "project title")
	cmd.Flags().String("description", "", "free-text description")
	cmd.Flags().String("question", "", "research question")
	cmd.Flags().String("include", "", "inclusion criteria")
	cmd.Flags().String("exclude", "", "exclusion criteria")
}

func init() {
	addProjectFields(projectCreateCmd)
	addProjectFields(projectCriteriaCmd)

	projectCmd.AddCommand(projectCreateCmd, projectListCmd, projectShowCmd, projectCriteriaCmd, projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}
