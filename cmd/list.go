package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/markassist/markassist/internal/marks"
)

var listCmd = &cobra.Command{
	Use:   "list [all | grade G | range LO HI | tolerance T | assignment1 N]",
	Short: "Print the records a selection matches",
	Example: `  markassist list
  markassist list grade HD
  markassist list range 45 49
  markassist list tolerance 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "all"
		if len(args) > 0 {
			name, args = args[0], args[1:]
		}
		op, err := marks.ParseOperation(name)
		if err != nil {
			return err
		}
		if !op.IsSelection() {
			return &marks.ErrValidation{Op: op, Reason: "not a selection"}
		}

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		recs, err := e.repo().Select(cmd.Context(), op, args...)
		if err != nil {
			return err
		}

		title := op.String()
		if len(args) > 0 {
			title += " " + strings.Join(args, " ")
		}
		printRecords(cmd.OutOrStdout(), title, recs)
		return nil
	},
}
