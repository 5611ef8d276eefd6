package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markassist/markassist/internal/marks"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the marks table if it does not exist",
	Long: `Connects to the configured database and creates the marks table when it is
missing. Existing data is left untouched.`,
	Args: cobra.NoArgs,
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
		success.Fprintf(cmd.OutOrStdout(), "Store ready (%s).\n", e.source())
		fmt.Fprintf(cmd.OutOrStdout(), "%d record(s) present.\n", len(recs))
		return nil
	},
}
