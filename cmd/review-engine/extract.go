// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/review-engine/internal/extraction"
	"github.com/pdiddy/review-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Manage the extraction schema and record extracted data",
	Long: `Extract manages the project's data-extraction matrix: the schema of
typed fields (text, number, select, boolean), the values recorded for
included studies, and the CSV export of the matrix.`,
}

// --- schema subcommands ---

var extractSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "List the extraction fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), readOnly(func(ws *workspace) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-20s  %-8s  %s\n", "ID", "Type", "Label")
			fmt.Fprintln(w, strings.Repeat("-", 60))
			for _, f := range ws.project.ExtractionSchema {
				label := f.Label
				if len(f.Options) > 0 {
					label += faint(" [" + strings.Join(f.Options, ", ") + "]")
				}
				fmt.Fprintf(w, "%-20s  %-8s  %s\n", f.ID, f.Type, label)
			}
			return nil
		}))
	},
}

var extractSchemaAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Add an extraction field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		id, _ := cmd.Flags().GetString("id")
		options, _ := cmd.Flags().GetStringSlice("options")
		f := types.ExtractionField{ID: id, Label: args[0], Type: types.FieldType(typ), Options: options}

		return withWorkspace(cmd.Context(), func(ws *workspace) (bool, error) {
			if err := extraction.AddField(ws.project, f); err != nil {
				return false, err
			}
			added := ws.project.ExtractionSchema[len(ws.project.ExtractionSchema)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "Added field %s (%s)\n", bold(added.ID), added.Type)
			return true, nil
		})
	},
}

var extractSchemaRemoveCmd = &cobra.Command{
	Use:   "remove <field-id>",
	Short: "Remove an extraction field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(ws *workspace) (bool, error) {
			if err := extraction.RemoveField(ws.project, args[0]); err != nil {
				return false, err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed field %s\n", args[0])
			return true, nil
		})
	},
}

// --- set subcommand ---

var extractSetCmd = &cobra.Command{
	Use:   "set <reference-id> <field-id> <value>",
	Short: "Record an extracted value for a reference",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(ws *workspace) (bool, error) {
			r, err := ws.set.Resolve(args[0])
			if err != nil {
				return false, err
			}
			v, err := extraction.Set(ws.set, ws.project, r.ID, args[1], args[2])
			if err != nil {
				return false, err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s.%s = %s\n", shortID(r.ID), args[1], extraction.Format(v))
			return true, nil
		})
	},
}

// --- show subcommand ---

var extractShowCmd = &cobra.Command{
	Use:   "show <reference-id>",
	Short: "Show the extracted values for a reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), readOnly(func(ws *workspace) error {
			r, err := ws.set.Resolve(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s  %s\n", bold(shortID(r.ID)), r.Title)
			for _, f := range ws.project.ExtractionSchema {
				value := faint("-")
				if v, ok := r.ExtractionData[f.ID]; ok {
					value = extraction.Format(v)
				}
				fmt.Fprintf(w, "  %-20s %s\n", f.Label, value)
			}
			return nil
		}))
	},
}

// --- export subcommand ---

var extractExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the extraction matrix of included studies as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		return withWorkspace(cmd.Context(), readOnly(func(ws *workspace) error {
			return writeTo(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return extraction.WriteCSV(w, ws.project, ws.set.All())
			})
		}))
	},
}

func init() {
	extractSchemaAddCmd.Flags().String("type", string(types.FieldText), "field type: text, number, select, boolean")
	extractSchemaAddCmd.Flags().String("id", "", "field ID (default: derived from the label)")
	extractSchemaAddCmd.Flags().StringSlice("options", nil, "allowed values for a select field")
	extractExportCmd.Flags().String("out", "", "output file (default: stdout)")

	extractSchemaCmd.AddCommand(extractSchemaAddCmd, extractSchemaRemoveCmd)
	extractCmd.AddCommand(extractSchemaCmd, extractSetCmd, extractShowCmd, extractExportCmd)
	rootCmd.AddCommand(extractCmd)
}
