// Package commands implements the importcheck CLI subcommands.
package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importcheck/pkg/config"
	"github.com/Sumatoshi-tech/importcheck/pkg/observability"
	"github.com/Sumatoshi-tech/importcheck/pkg/version"
)

// FlagConfig is the persistent flag naming an explicit config file.
const FlagConfig = "config"

// loadConfig reads the config file named by --config, if any.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString(FlagConfig)
	if err != nil {
		path = ""
	}

	return config.LoadConfig(path)
}

type observabilityOptions struct {
	mode       observability.AppMode
	logOutput  io.Writer
	logJSON    bool
	debug      bool
	prometheus bool
}

func initObservability(cfg *config.Config, opts observabilityOptions) (observability.Providers, error) {
	level, err := observability.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		return observability.Providers{}, err
	}

	if opts.debug {
		level = slog.LevelDebug
	}

	obsCfg := observability.WithOTLPEnv(observability.DefaultConfig())
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Logging.Environment
	obsCfg.Mode = opts.mode
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.JSON || opts.logJSON
	obsCfg.LogOutput = opts.logOutput
	obsCfg.Prometheus = opts.prometheus

	return observability.Init(obsCfg)
}

func shutdownObservability(providers observability.Providers) {
	shutdownErr := providers.Shutdown(context.Background())
	if shutdownErr != nil {
		providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
	}
}

// serveMetrics runs the Prometheus endpoint in the background until ctx is done.
func serveMetrics(ctx context.Context, addr string, providers observability.Providers) {
	if addr == "" {
		return
	}

	go func() {
		serveErr := observability.ServeMetrics(ctx, addr, providers)
		if serveErr != nil {
			providers.Logger.Error("metrics endpoint failed", "error", serveErr)
		}
	}()
}
