// Command solarsim is the residential solar performance estimator.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seenimoa/solarsim/internal/config"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "solarsim",
	Short: "Residential solar output, cost and payback estimator",
	Long: `solarsim estimates the yearly and monthly energy output of a rooftop
solar installation from its site and hardware, together with the system
cost and the years needed to pay it back.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
			if err := config.Validate(cfg); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "solarsim %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit:  %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:   %s\n", date)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show version and effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		source := cfg.File()
		if source == "" {
			source = "defaults + environment"
		}

		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintln(out, "  solarsim System Status")
		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintf(out, "  Version:       %s (%s)\n", version, commit)
		fmt.Fprintf(out, "  Config:        %s\n", source)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Configuration:")
		fmt.Fprintf(out, "    API Server:    %s\n", cfg.API.Addr())
		fmt.Fprintf(out, "    CORS Origins:  %v\n", cfg.API.CORSOrigins)
		fmt.Fprintf(out, "    Rate Limit:    %s\n", rateLimitSummary(cfg.API))
		fmt.Fprintf(out, "    Batch:         max %d, concurrency %d\n", cfg.Batch.MaxRequests, cfg.Batch.Concurrency)
		fmt.Fprintf(out, "    Catalog DSN:   %s (cache %v)\n", cfg.Catalog.DSN, cfg.Catalog.CacheDuration())
		fmt.Fprintf(out, "    Metrics:       %s\n", metricsSummary(cfg.Metrics))
		fmt.Fprintf(out, "    Log Level:     %s\n", cfg.Logging.Level)
		fmt.Fprintln(out, "═══════════════════════════════════════")
		return nil
	},
}

func rateLimitSummary(api config.APIConfig) string {
	if api.RateLimit <= 0 {
		return "off"
	}
	return fmt.Sprintf("%d per %v", api.RateLimit, api.RateWindow())
}

func metricsSummary(m config.MetricsConfig) string {
	if !m.Enabled {
		return "off"
	}
	return m.Path
}
