package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seenimoa/solarsim/api"
	"github.com/seenimoa/solarsim/internal/catalog"
	"github.com/seenimoa/solarsim/internal/metrics"
)

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.API.Port = port
		}

		store, err := catalog.Open(cmd.Context(), cfg.Catalog.DSN, cfg.Catalog.CacheDuration())
		if err != nil {
			return fmt.Errorf("catalog setup failed: %w", err)
		}
		defer store.Close()

		var m *metrics.Metrics
		if cfg.Metrics.Enabled {
			m = metrics.New()
		}

		fmt.Fprintf(cmd.OutOrStdout(), "🌞 Starting solarsim API server on %s\n", cfg.API.Addr())
		return api.NewServer(cfg, store, m).ListenAndServe(cfg.API.Addr())
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides api.port)")
}
