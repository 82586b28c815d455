package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Surface names the long-running front end that served a call.
type Surface string

// Served surfaces.
const (
	SurfaceLSP Surface = "lsp"
	SurfaceMCP Surface = "mcp"
)

// Outcome is the result class of a served call.
type Outcome string

// Call outcomes.
const (
	OutcomeOK     Outcome = "ok"
	OutcomeFailed Outcome = "failed"
)

const (
	metricCallsTotal   = "importcheck.server.calls.total"
	metricCallDuration = "importcheck.server.call.duration.seconds"
	metricCallsActive  = "importcheck.server.calls.active"
	metricCacheLookups = "importcheck.server.cache.lookups.total"

	attrSurface = "surface"
	attrCall    = "call"
	attrOutcome = "outcome"
	attrCache   = "cache"

	cacheHit  = "hit"
	cacheMiss = "miss"
)

// durationBucketBoundaries covers 1ms to 120s: single documents analyse in
// milliseconds, whole trees in seconds.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}

// ServerMetrics counts the calls served by the LSP and MCP front ends: how
// many, how long, how many are running, and how often the document cache hit.
type ServerMetrics struct {
	calls        metric.Int64Counter
	duration     metric.Float64Histogram
	active       metric.Int64UpDownCounter
	cacheLookups metric.Int64Counter
}

// NewServerMetrics creates the server instruments from the given meter.
func NewServerMetrics(mt metric.Meter) (*ServerMetrics, error) {
	calls, err := mt.Int64Counter(metricCallsTotal,
		metric.WithDescription("Calls served, by surface, call and outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCallsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricCallDuration,
		metric.WithDescription("Time to serve a call in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCallDuration, err)
	}

	active, err := mt.Int64UpDownCounter(metricCallsActive,
		metric.WithDescription("Calls currently being served"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCallsActive, err)
	}

	lookups, err := mt.Int64Counter(metricCacheLookups,
		metric.WithDescription("Document analysis cache lookups, by hit or miss"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCacheLookups, err)
	}

	return &ServerMetrics{
		calls:        calls,
		duration:     duration,
		active:       active,
		cacheLookups: lookups,
	}, nil
}

// StartCall marks a call as active. The returned function ends it, recording
// its outcome and duration. Safe on a nil receiver.
func (sm *ServerMetrics) StartCall(ctx context.Context, surface Surface, call string) func(Outcome) {
	if sm == nil {
		return func(Outcome) {}
	}

	start := time.Now()
	where := metric.WithAttributes(
		attribute.String(attrSurface, string(surface)),
		attribute.String(attrCall, call),
	)

	sm.active.Add(ctx, 1, where)

	return func(outcome Outcome) {
		sm.active.Add(ctx, -1, where)
		sm.duration.Record(ctx, time.Since(start).Seconds(), where)
		sm.calls.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrSurface, string(surface)),
			attribute.String(attrCall, call),
			attribute.String(attrOutcome, string(outcome)),
		))
	}
}

// RecordCacheLookup counts one lookup in the document analysis cache. Safe on
// a nil receiver.
func (sm *ServerMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if sm == nil {
		return
	}

	result := cacheMiss
	if hit {
		result = cacheHit
	}

	sm.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String(attrCache, result)))
}
