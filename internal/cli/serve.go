package cli

import (
	"github.com/spf13/cobra"

	"tabula/internal/server"
	"tabula/pkg/store"
)

// serveCommand creates the serve command running the board server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the board server",
		Long: `Run the REST board server so multiple tabula instances can share boards.

The server exposes the board API under /api/v1/boards, a liveness probe at
/healthz, and prometheus metrics at /metrics. Point other instances at it
with --store http://HOST:PORT or store.dsn in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			st, err := store.Open(ctx, cfg.Store.DSN)
			if err != nil {
				return err
			}
			defer st.Close()
			logger.Info("store ready", "dsn", cfg.Store.DSN)

			srv := server.New(st, server.WithLogger(logger))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, localhost:8418)")

	return cmd
}
