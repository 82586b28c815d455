package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// MetricsPath is the Prometheus scrape path.
	MetricsPath = "/metrics"

	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// ErrNoMetricsHandler is returned when a metrics server is requested without
// a Prometheus-enabled provider.
var ErrNoMetricsHandler = errors.New("prometheus metrics are not enabled")

// statusWriter records the status code written through it.
type statusWriter struct {
	http.ResponseWriter

	statusCode int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.statusCode == 0 {
		sw.statusCode = code
	}

	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(buf []byte) (int, error) {
	if sw.statusCode == 0 {
		sw.statusCode = http.StatusOK
	}

	n, err := sw.ResponseWriter.Write(buf)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}

	return n, nil
}

// HTTPMiddleware returns an [http.Handler] that creates a server span named
// "METHOD /path" per request.
func HTTPMiddleware(tracer trace.Tracer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		parentCtx := otel.GetTextMapPropagator().Extract(hr.Context(), propagation.HeaderCarrier(hr.Header))

		ctx, span := tracer.Start(parentCtx, hr.Method+" "+hr.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(semconv.HTTPRequestMethodKey.String(hr.Method)),
		)
		defer span.End()

		sw := &statusWriter{ResponseWriter: rw}
		next.ServeHTTP(sw, hr.WithContext(ctx))

		if sw.statusCode == 0 {
			sw.statusCode = http.StatusOK
		}

		span.SetAttributes(semconv.HTTPResponseStatusCode(sw.statusCode))

		if sw.statusCode >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(sw.statusCode))
		}
	})
}

// MetricsMux routes MetricsPath to the providers' Prometheus handler.
func MetricsMux(providers Providers) (*http.ServeMux, error) {
	if providers.MetricsHandler == nil {
		return nil, ErrNoMetricsHandler
	}

	mux := http.NewServeMux()
	mux.Handle(MetricsPath, HTTPMiddleware(providers.Tracer, providers.MetricsHandler))

	return mux, nil
}

// ServeMetrics serves the Prometheus endpoint on addr until ctx is done.
func ServeMetrics(ctx context.Context, addr string, providers Providers) error {
	mux, err := MetricsMux(providers)
	if err != nil {
		return err
	}

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: readHeaderTimeout}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownErr := srv.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			providers.Logger.Warn("metrics server shutdown failed", slog.Any("error", shutdownErr))
		}
	}()

	providers.Logger.Info("serving metrics", slog.String("addr", listener.Addr().String()))

	serveErr := srv.Serve(listener)
	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", serveErr)
	}

	return nil
}
