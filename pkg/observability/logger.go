package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrSampled = "trace_sampled"
	attrService = "service"
	attrVersion = "version"
	attrEnv     = "env"
	attrMode    = "mode"
)

// LogIdentity is attached to every record so that output from the check
// command, the language server and the MCP server can be told apart.
type LogIdentity struct {
	Service string
	Version string
	Env     string
	Mode    AppMode
}

func (id LogIdentity) attrs() []slog.Attr {
	attrs := []slog.Attr{slog.String(attrService, id.Service)}

	for _, kv := range [...]struct{ key, value string }{
		{attrVersion, id.Version},
		{attrMode, string(id.Mode)},
		{attrEnv, id.Env},
	} {
		if kv.value != "" {
			attrs = append(attrs, slog.String(kv.key, kv.value))
		}
	}

	return attrs
}

// TracingHandler is an [slog.Handler] that adds the active span's trace_id,
// span_id and sampling flag to each record. Identity attributes are attached
// before any group so they stay top-level.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner with trace context and the given identity.
func NewTracingHandler(inner slog.Handler, id LogIdentity) *TracingHandler {
	return &TracingHandler{inner: inner.WithAttrs(id.attrs())}
}

// Enabled delegates to the inner handler.
func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

// Handle adds the span context carried by ctx, if any, then delegates.
func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
			slog.Bool(attrSampled, sc.IsSampled()),
		)
	}

	handleErr := th.inner.Handle(ctx, record)
	if handleErr != nil {
		return fmt.Errorf("tracing handler: %w", handleErr)
	}

	return nil
}

// WithAttrs implements [slog.Handler].
func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

// WithGroup implements [slog.Handler].
func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
