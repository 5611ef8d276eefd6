package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markassist/markassist/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM provider used by ask",
}

var llmInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the configured provider, model and price",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !cfg.LLMConfigured {
			warning.Fprintln(out, "No LLM provider configured.")
			return nil
		}
		p, err := llm.NewProvider(cmd.Context(), cfg.LLM, nil)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Provider:  %s\n", cfg.LLM.Provider)
		fmt.Fprintf(out, "Model:     %s\n", p.ModelID())
		fmt.Fprintf(out, "Retries:   %d attempts\n", cfg.LLM.Retry.MaxAttempts)
		if c := llm.LookupCost(p.ModelID()); c != nil {
			fmt.Fprintf(out, "Price:     $%.2f in / $%.2f out per million tokens\n", c.InputPerMTok, c.OutputPerMTok)
			// A typical translation is ~600 tokens in and ~40 out.
			fmt.Fprintf(out, "Per ask:   ~%s\n", formatCost(c.Cost(600, 40)))
		} else {
			fmt.Fprintln(out, "Price:     unknown")
		}
		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmCmd.AddCommand(llmInfoCmd)
}
