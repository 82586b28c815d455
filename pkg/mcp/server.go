// Package mcp implements a Model Context Protocol server exposing the import
// check as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/importcheck/pkg/importcheck"
	"github.com/Sumatoshi-tech/importcheck/pkg/observability"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "importcheck"

	// toolCount is the expected number of registered tools.
	toolCount = 2
)

// ScanDefaults are the file selection settings applied to every scan tool call.
type ScanDefaults struct {
	Extensions  []string
	Exclude     []string
	Ignore      []string
	MaxFileSize int64
	SkipVendor  bool
	Workers     int
}

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional call metrics recorder. Nil disables per-tool metrics.
	Metrics *observability.ServerMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer

	// Analysis configures the analyzer. The zero value means importcheck.DefaultConfig.
	Analysis *importcheck.Config

	Scan    ScanDefaults
	Version string
}

// Server wraps the MCP SDK server with importcheck tool registrations.
type Server struct {
	inner    *mcpsdk.Server
	mu       sync.RWMutex
	tools    []string
	metrics  *observability.ServerMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
	analysis importcheck.Config
	scan     ScanDefaults
}

// NewServer creates a new MCP server with all importcheck tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version,
		},
		opts,
	)

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	analysis := importcheck.DefaultConfig()
	if deps.Analysis != nil {
		analysis = *deps.Analysis
	}

	scan := deps.Scan
	if len(scan.Extensions) == 0 {
		scan.Extensions = []string{".ts", ".tsx"}
	}

	srv := &Server{
		inner:    inner,
		tools:    make([]string, 0, toolCount),
		metrics:  deps.Metrics,
		tracer:   deps.Tracer,
		logger:   logger,
		analysis: analysis,
		scan:     scan,
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameAnalyze,
		Description: analyzeToolDescription,
	}, withMetrics(s.metrics, ToolNameAnalyze, withTracing(s.tracer, ToolNameAnalyze, s.handleAnalyze)))

	s.trackTool(ToolNameAnalyze)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameScan,
		Description: scanToolDescription,
	}, withMetrics(s.metrics, ToolNameScan, withTracing(s.tracer, ToolNameScan, s.handleScan)))

	s.trackTool(ToolNameScan)
}

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in MCP tool responses.
const traceIDMetaKey = "trace_id"

// withTracing wraps an MCP tool handler to create an OTel span per invocation
// and include trace_id in the response content when sampled.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}

// withMetrics wraps an MCP tool handler to record call metrics per invocation.
func withMetrics[Input any](
	metrics *observability.ServerMetrics,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		end := metrics.StartCall(ctx, observability.SurfaceMCP, toolName)

		result, output, err := handler(ctx, req, input)

		outcome := observability.OutcomeOK
		if err != nil || (result != nil && result.IsError) {
			outcome = observability.OutcomeFailed
		}

		end(outcome)

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	analyzeToolDescription = "Check inline TypeScript source for unused and duplicate imports. " +
		"Matching is lexical: names mentioned in comments or strings count as used."

	scanToolDescription = "Check every .ts/.tsx file under an absolute directory path for unused " +
		"and duplicate imports. Returns the same document as import-check-report.json."
)
