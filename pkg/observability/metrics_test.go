package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/importcheck/pkg/observability"
)

func newManualMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumValue(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()

	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func sumWhere(t *testing.T, m *metricdata.Metrics, key, value string) int64 {
	t.Helper()

	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64

	for _, dp := range sum.DataPoints {
		if got, found := dp.Attributes.Value(attribute.Key(key)); found && got.AsString() == value {
			total += dp.Value
		}
	}

	return total
}

func TestServerMetrics_StartCall(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)

	sm, err := observability.NewServerMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()

	endDiagnostics := sm.StartCall(ctx, observability.SurfaceLSP, "diagnostics")
	endScan := sm.StartCall(ctx, observability.SurfaceMCP, "importcheck_scan")

	assert.Equal(t, int64(2), sumValue(t, findMetric(collect(t, reader), "importcheck.server.calls.active")))

	endDiagnostics(observability.OutcomeOK)
	endScan(observability.OutcomeFailed)

	rm := collect(t, reader)

	assert.Equal(t, int64(0), sumValue(t, findMetric(rm, "importcheck.server.calls.active")))

	calls := findMetric(rm, "importcheck.server.calls.total")
	assert.Equal(t, int64(2), sumValue(t, calls))
	assert.Equal(t, int64(1), sumWhere(t, calls, "outcome", "failed"))
	assert.Equal(t, int64(1), sumWhere(t, calls, "surface", "lsp"))
	assert.Equal(t, int64(1), sumWhere(t, calls, "call", "importcheck_scan"))
	assert.NotNil(t, findMetric(rm, "importcheck.server.call.duration.seconds"))
}

func TestServerMetrics_RecordCacheLookup(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)

	sm, err := observability.NewServerMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	sm.RecordCacheLookup(ctx, false)
	sm.RecordCacheLookup(ctx, true)
	sm.RecordCacheLookup(ctx, true)

	lookups := findMetric(collect(t, reader), "importcheck.server.cache.lookups.total")
	assert.Equal(t, int64(2), sumWhere(t, lookups, "cache", "hit"))
	assert.Equal(t, int64(1), sumWhere(t, lookups, "cache", "miss"))
}

func TestScanMetrics(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)

	scan, err := observability.NewScanMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	scan.RecordFile(ctx, 2, 1, time.Millisecond)
	scan.RecordFile(ctx, 0, 0, time.Millisecond)
	scan.RecordReadFailure(ctx)
	scan.RecordRun(ctx, time.Second)

	rm := collect(t, reader)

	assert.Equal(t, int64(2), sumValue(t, findMetric(rm, "importcheck.scan.files.total")))
	assert.Equal(t, int64(1), sumValue(t, findMetric(rm, "importcheck.scan.read_failures.total")))
	assert.Equal(t, int64(3), sumValue(t, findMetric(rm, "importcheck.scan.findings.total")))
	assert.NotNil(t, findMetric(rm, "importcheck.scan.run.duration.seconds"))
}

func TestMetrics_NilReceivers(t *testing.T) {
	t.Parallel()

	var (
		server *observability.ServerMetrics
		scan   *observability.ScanMetrics
	)

	ctx := context.Background()

	assert.NotPanics(t, func() {
		server.StartCall(ctx, observability.SurfaceMCP, "call")(observability.OutcomeOK)
		server.RecordCacheLookup(ctx, true)
		scan.RecordFile(ctx, 1, 1, time.Millisecond)
		scan.RecordReadFailure(ctx)
		scan.RecordRun(ctx, time.Second)
	})
}
