package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var attachCmd = &cobra.Command{
	Use:   "attach <reference-id> <file-name>",
	Short: "Record the name of a record's full-text file",
	Long: `Attach stores the name of the full-text artifact for a record. The
record's status and decisions are not changed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWorkspace(cmd.Context(), func(ws *workspace) (bool, error) {
			r, err := ws.set.Resolve(args[0])
			if err != nil {
				return false, err
			}
			if err := ws.set.SetAttachment(r.ID, args[1]); err != nil {
				return false, err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Attached %s to %s\n", args[1], shortID(r.ID))
			return true, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(attachCmd)
}
