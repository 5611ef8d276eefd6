package cmd

import (
	"github.com/spf13/cobra"

	"github.com/markassist/markassist/internal/marks"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the grade distribution",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		recs, err := e.repo().Run(cmd.Context(), marks.All{})
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), marks.Summarize(recs))
		return nil
	},
}
