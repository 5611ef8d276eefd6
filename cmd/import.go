package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/markassist/markassist/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import FILE.csv",
	Short: "Insert mark records from a CSV file",
	Long: `Inserts one record per CSV row. The header names the columns StudentID,
Assignment1, Assignment2, Exam, Total and Grade in any order; Total and Grade
are optional and computed when blank. Rows that fail are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		validateOnly, _ := cmd.Flags().GetBool("validate")

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := importer.New(e.repo(), e.logger).Import(cmd.Context(), f, importer.Options{ValidateOnly: validateOnly})
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}
		printImport(cmd.OutOrStdout(), res, validateOnly)
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("validate", false, "Check the file without writing")
}
