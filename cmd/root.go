package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/markassist/markassist/internal/config"
	"github.com/markassist/markassist/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "markassist",
	Short: "Look up and grade student mark records",
	Long: `markassist helps teaching staff browse student marks, find records by grade,
total or assignment mark, and keep stored grades in line with the grading rules.

Run without a subcommand to open the terminal browser.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("driver", "", "Database driver: sqlite, postgres or pgx (overrides MARKASSIST_DB_DRIVER)")
	rootCmd.PersistentFlags().String("dsn", "", "Database DSN or SQLite file path (overrides MARKASSIST_DB_DSN)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides MARKASSIST_LOG_LEVEL)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and .env, then applies the global flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := cmd.Flags().GetString("driver"); v != "" {
		cfg.DB.Driver = store.Driver(v)
	}
	if v, _ := cmd.Flags().GetString("dsn"); v != "" {
		cfg.DB.DSN = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if cfg.DB.Driver == store.DriverSQLite && cfg.DB.DSN != "" && !strings.HasPrefix(cfg.DB.DSN, "file:") && cfg.DB.DSN != ":memory:" {
		if err := store.EnsureDir(cfg.DB.DSN); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, cfg.ResolveDSN()
}
