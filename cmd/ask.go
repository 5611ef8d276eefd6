package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markassist/markassist/internal/marks"
)

var askCmd = &cobra.Command{
	Use:   "ask QUESTION",
	Short: "Find records by asking in plain English",
	Example: `  markassist ask "who got a credit?"
  markassist ask "students one mark short of a pass"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			return errors.New("question must not be empty")
		}

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		tr, err := e.translator(ctx)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}
		if tr == nil {
			return errors.New("no LLM provider configured; set MARKASSIST_LLM_PROVIDER or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY")
		}

		sel, err := tr.Translate(ctx, question)
		if err != nil {
			return err
		}
		recs, err := e.repo().Run(ctx, sel)
		if err != nil {
			return err
		}
		printRecords(cmd.OutOrStdout(), marks.Describe(sel), recs)
		return nil
	},
}
