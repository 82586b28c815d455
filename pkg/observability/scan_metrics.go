package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal        = "importcheck.scan.files.total"
	metricReadFailuresTotal = "importcheck.scan.read_failures.total"
	metricFindingsTotal     = "importcheck.scan.findings.total"
	metricFileDuration      = "importcheck.scan.file.duration.seconds"
	metricRunDuration       = "importcheck.scan.run.duration.seconds"

	attrKind = "kind"

	kindUnused    = "unused"
	kindDuplicate = "duplicate"
)

// ScanMetrics holds OTel instruments for directory scans.
type ScanMetrics struct {
	filesTotal    metric.Int64Counter
	readFailures  metric.Int64Counter
	findingsTotal metric.Int64Counter
	fileDuration  metric.Float64Histogram
	runDuration   metric.Float64Histogram
}

// NewScanMetrics creates scan metric instruments from the given meter.
func NewScanMetrics(mt metric.Meter) (*ScanMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Files analysed"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	failures, err := mt.Int64Counter(metricReadFailuresTotal,
		metric.WithDescription("Files skipped because they could not be read"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricReadFailuresTotal, err)
	}

	findings, err := mt.Int64Counter(metricFindingsTotal,
		metric.WithDescription("Import findings by kind"),
		metric.WithUnit("{finding}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFindingsTotal, err)
	}

	fileDur, err := mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Per-file analysis duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	runDur, err := mt.Float64Histogram(metricRunDuration,
		metric.WithDescription("Whole scan duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunDuration, err)
	}

	return &ScanMetrics{
		filesTotal:    files,
		readFailures:  failures,
		findingsTotal: findings,
		fileDuration:  fileDur,
		runDuration:   runDur,
	}, nil
}

// RecordFile records one analysed file. Safe on a nil receiver.
func (sm *ScanMetrics) RecordFile(ctx context.Context, unused, duplicates int, duration time.Duration) {
	if sm == nil {
		return
	}

	sm.filesTotal.Add(ctx, 1)
	sm.fileDuration.Record(ctx, duration.Seconds())
	sm.findingsTotal.Add(ctx, int64(unused), metric.WithAttributes(attribute.String(attrKind, kindUnused)))
	sm.findingsTotal.Add(ctx, int64(duplicates), metric.WithAttributes(attribute.String(attrKind, kindDuplicate)))
}

// RecordReadFailure records a file that was skipped. Safe on a nil receiver.
func (sm *ScanMetrics) RecordReadFailure(ctx context.Context) {
	if sm == nil {
		return
	}

	sm.readFailures.Add(ctx, 1)
}

// RecordRun records the duration of a complete scan. Safe on a nil receiver.
func (sm *ScanMetrics) RecordRun(ctx context.Context, duration time.Duration) {
	if sm == nil {
		return
	}

	sm.runDuration.Record(ctx, duration.Seconds())
}
