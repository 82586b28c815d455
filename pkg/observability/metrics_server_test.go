package observability_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/importcheck/pkg/observability"
)

func TestHTTPMiddleware_CreatesServerSpan(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	handler := observability.HTTPMiddleware(tp.Tracer("test"), http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusServiceUnavailable)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /metrics", spans[0].Name)
	assert.Equal(t, "Error", spans[0].Status.Code.String())
}

func TestMetricsMux_RequiresHandler(t *testing.T) {
	t.Parallel()

	_, err := observability.MetricsMux(observability.Providers{Tracer: nooptrace.NewTracerProvider().Tracer("t")})
	require.ErrorIs(t, err, observability.ErrNoMetricsHandler)
}

func TestMetricsMux_RoutesMetricsPath(t *testing.T) {
	t.Parallel()

	providers := observability.Providers{
		Tracer: nooptrace.NewTracerProvider().Tracer("t"),
		MetricsHandler: http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			_, _ = rw.Write([]byte("ok"))
		}),
	}

	mux, err := observability.MetricsMux(providers)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, observability.MetricsPath, http.NoBody))
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", http.NoBody))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
