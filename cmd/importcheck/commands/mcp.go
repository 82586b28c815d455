package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importcheck/pkg/mcp"
	"github.com/Sumatoshi-tech/importcheck/pkg/observability"
	"github.com/Sumatoshi-tech/importcheck/pkg/version"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var (
		debug       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the import check as tools that AI agents can discover
and invoke:
  - importcheck_analyze: Check inline TypeScript source
  - importcheck_scan: Check every .ts/.tsx file under an absolute directory path`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cobraCmd)
			if err != nil {
				return err
			}

			providers, err := initObservability(cfg, observabilityOptions{
				mode:       observability.ModeMCP,
				logOutput:  cobraCmd.ErrOrStderr(),
				logJSON:    true,
				debug:      debug,
				prometheus: metricsAddr != "",
			})
			if err != nil {
				return err
			}
			defer shutdownObservability(providers)

			callMetrics, err := observability.NewServerMetrics(providers.Meter)
			if err != nil {
				return err
			}

			serveMetrics(cobraCmd.Context(), metricsAddr, providers)

			maxSize, err := cfg.MaxFileSizeBytes()
			if err != nil {
				return err
			}

			analysis := cfg.AnalyzerConfig()

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:   providers.Logger,
				Metrics:  callMetrics,
				Tracer:   providers.Tracer,
				Analysis: &analysis,
				Scan: mcp.ScanDefaults{
					Extensions:  cfg.Scan.Extensions,
					Exclude:     cfg.Scan.Exclude,
					Ignore:      cfg.Scan.Ignore,
					MaxFileSize: maxSize,
					SkipVendor:  cfg.Scan.SkipVendor,
					Workers:     cfg.Scan.Workers,
				},
				Version: version.Version,
			})

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")
	cmd.Flags().StringVar(&metricsAddr, flagMetricsAddr, "", "Serve Prometheus metrics on this address (e.g. ':9464')")

	return cmd
}
