package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importcheck/pkg/importcheck"
	"github.com/Sumatoshi-tech/importcheck/pkg/lsp"
	"github.com/Sumatoshi-tech/importcheck/pkg/observability"
	"github.com/Sumatoshi-tech/importcheck/pkg/version"
)

const flagMetricsAddr = "metrics-addr"

// NewLSPCommand creates the language server command.
func NewLSPCommand() *cobra.Command {
	var (
		debug       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the import diagnostics language server",
		Long: `Start a Language Server Protocol server on stdio.

Open .ts/.tsx documents receive a warning for every unused import and an
information diagnostic for every duplicate import. Logs go to stderr.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cobraCmd)
			if err != nil {
				return err
			}

			providers, err := initObservability(cfg, observabilityOptions{
				mode:       observability.ModeLSP,
				logOutput:  cobraCmd.ErrOrStderr(),
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

			srv, err := lsp.NewServer(lsp.Options{
				Analyzer:   importcheck.NewAnalyzer(cfg.AnalyzerConfig()),
				Extensions: cfg.Scan.Extensions,
				CacheSize:  cfg.LSP.CacheSize,
				Version:    version.Version,
				Logger:     providers.Logger,
				Metrics:    callMetrics,
			})
			if err != nil {
				return err
			}

			return srv.Run()
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")
	cmd.Flags().StringVar(&metricsAddr, flagMetricsAddr, "", "Serve Prometheus metrics on this address (e.g. ':9464')")

	return cmd
}
