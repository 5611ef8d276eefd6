package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/markassist/markassist/internal/app"
	"github.com/markassist/markassist/internal/config"
	"github.com/markassist/markassist/internal/llm"
	"github.com/markassist/markassist/internal/logging"
	"github.com/markassist/markassist/internal/marks"
	"github.com/markassist/markassist/internal/nlquery"
	"github.com/markassist/markassist/internal/store"
)

// env is everything a command needs once the store is open.
type env struct {
	cfg    config.Config
	logger log.Logger
	db     *store.DB
	wf     *marks.Workflow

	closers []io.Closer
}

// openEnv loads configuration, builds the logger writing to logOut and opens
// the store.
func openEnv(cmd *cobra.Command, logOut io.Writer) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(logOut, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cmd.Context(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		wf:      marks.NewWorkflow(marks.NewRepository(db, logger), logger),
		closers: []io.Closer{db},
	}, nil
}

func (e *env) repo() *marks.Repository {
	return e.wf.Repository()
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			level.Warn(e.logger).Log("msg", "close failed", "err", err)
		}
	}
}

// translator builds the question translator, or returns nil when no LLM
// provider is configured.
func (e *env) translator(ctx context.Context) (*nlquery.Translator, error) {
	if !e.cfg.LLMConfigured {
		return nil, nil
	}
	provider, err := llm.NewProvider(ctx, e.cfg.LLM, e.logger)
	if err != nil {
		return nil, err
	}
	return nlquery.New(provider, e.logger), nil
}

// source describes the open store for people, without credentials.
func (e *env) source() string {
	if e.cfg.DB.Driver == store.DriverSQLite {
		return fmt.Sprintf("sqlite: %s", e.cfg.DB.DSN)
	}
	return fmt.Sprintf("%s database", e.cfg.DB.Driver)
}

// runBrowse opens the store and launches the terminal browser. Logs go to a
// file so they do not draw over the screen.
func runBrowse(cmd *cobra.Command) error {
	logFile, err := logging.OpenFile()
	if err != nil {
		return err
	}
	defer logFile.Close()

	e, err := openEnv(cmd, logFile)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	recs, err := e.repo().Run(ctx, marks.All{})
	if err != nil {
		return err
	}

	opts := app.Options{
		Workflow: e.wf,
		Source:   e.source(),
		Records:  len(recs),
	}

	tr, err := e.translator(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Asking questions in plain English will be unavailable.")
	} else if tr != nil {
		opts.Translator = tr
	}

	return app.Run(ctx, opts)
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the terminal browser",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd)
	},
}
