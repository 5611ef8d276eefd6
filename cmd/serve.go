package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markassist/markassist/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the marks over HTTP",
	Long: `Serves the mark records as JSON. Routes:

  GET  /marks?op=all|grade|range|tolerance|assignment1&p=...
  PUT  /marks/{studentID}
  POST /marks/{studentID}/recompute
  POST /marks/recompute
  GET  /stats
  GET  /healthz`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		addr := e.cfg.HTTPAddr
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			addr = v
		}

		srv := api.New(e.wf, e.db, api.Options{
			CORSOrigins: e.cfg.CORSOrigins,
			RateLimit:   e.cfg.RateLimit,
		}, e.logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides MARKASSIST_HTTP_ADDR)")
}
