package app

import (
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/disciplineos/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the derived dashboard as JSON over HTTP",
	Long: `Serve read-only JSON endpoints computed from the configured source:

  GET /healthz
  GET /api/dashboard
  GET /api/achievements
  GET /api/analytics?days=N
  GET /metrics            Prometheus metrics

The listen address defaults to server.addr (127.0.0.1:8787).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	addr := serveAddr
	if addr == "" {
		addr = s.cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer stop()

	srv := server.New(s.src, server.Options{
		Derive: s.cfg.DeriveOptions(),
		Now:    s.now,
		Logger: s.log,
	})
	s.printf(" Serving on http://%s (ctrl-c to stop)\n", addr)
	return srv.ListenAndServe(ctx, addr)
}
