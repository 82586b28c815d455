// Package observability provides OpenTelemetry-based tracing, metrics, and
// structured logging for every importcheck mode (CLI, LSP, MCP).
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// AppMode identifies the application execution mode.
type AppMode string

const (
	// ModeCLI is the one-shot check command.
	ModeCLI AppMode = "cli"
	// ModeLSP is the language server over stdio.
	ModeLSP AppMode = "lsp"
	// ModeMCP is the MCP stdio server mode.
	ModeMCP AppMode = "mcp"
)

const (
	defaultServiceName        = "importcheck"
	defaultShutdownTimeoutSec = 5

	envOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOTLPHeaders  = "OTEL_EXPORTER_OTLP_HEADERS"
	envOTLPInsecure = "OTEL_EXPORTER_OTLP_INSECURE"
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment (e.g. "ci", "dev").
	Environment string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables export.
	OTLPEndpoint string

	// OTLPHeaders are additional gRPC metadata headers for the OTLP exporter.
	OTLPHeaders map[string]string

	// OTLPInsecure disables TLS for the OTLP gRPC connection.
	OTLPInsecure bool

	// SampleRatio is the trace sampling ratio (0.0 to 1.0).
	// Zero keeps every root span.
	SampleRatio float64

	// Prometheus attaches a Prometheus reader to the meter provider and
	// exposes it through Providers.MetricsHandler.
	Prometheus bool

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON enables JSON-formatted log output.
	LogJSON bool

	// LogOutput receives log records. Nil means stderr.
	LogOutput io.Writer

	// ShutdownTimeoutSec is the maximum seconds to wait for flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// WithOTLPEnv overlays the standard OTLP exporter environment variables on cfg.
func WithOTLPEnv(cfg Config) Config {
	if endpoint := os.Getenv(envOTLPEndpoint); endpoint != "" {
		cfg.OTLPEndpoint = endpoint
	}

	if headers := ParseOTLPHeaders(os.Getenv(envOTLPHeaders)); headers != nil {
		cfg.OTLPHeaders = headers
	}

	if os.Getenv(envOTLPInsecure) == "true" {
		cfg.OTLPInsecure = true
	}

	return cfg
}

// ParseLogLevel converts a level name (debug, info, warn, error) into a slog.Level.
// An empty name yields info.
func ParseLogLevel(name string) (slog.Level, error) {
	if strings.TrimSpace(name) == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level

	err := level.UnmarshalText([]byte(strings.TrimSpace(name)))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level: %w", err)
	}

	return level, nil
}

// ParseOTLPHeaders parses an OTLP headers string in "key=value,key=value"
// format. Returns nil for empty or invalid input.
func ParseOTLPHeaders(raw string) map[string]string {
	if raw == "" {
		return nil
	}

	result := make(map[string]string)

	for pair := range strings.SplitSeq(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}

		result[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	if len(result) == 0 {
		return nil
	}

	return result
}
