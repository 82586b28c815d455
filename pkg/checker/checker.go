// Package checker runs an import check over a scanned directory tree.
package checker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/importcheck/pkg/importcheck"
	"github.com/Sumatoshi-tech/importcheck/pkg/observability"
	"github.com/Sumatoshi-tech/importcheck/pkg/report"
	"github.com/Sumatoshi-tech/importcheck/pkg/scanner"
)

const (
	spanRun  = "importcheck.run"
	spanFile = "importcheck.file"

	progressWidth    = 40
	progressThrottle = 65 * time.Millisecond
)

// Source lists files and reads them. *scanner.Scanner implements it.
type Source interface {
	Scan(ctx context.Context) ([]scanner.File, error)
	ReadFile(name string) ([]byte, error)
}

// Options configures a Checker. Zero values are usable.
type Options struct {
	// Workers analyse files concurrently. Values below 2 run sequentially.
	Workers int

	// Progress receives a progress bar. Nil disables it.
	Progress io.Writer

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.ScanMetrics
}

// Checker drives Source → Analyzer → Aggregator.
type Checker struct {
	source   Source
	analyzer *importcheck.Analyzer
	workers  int
	progress io.Writer
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *observability.ScanMetrics
}

// New creates a Checker.
func New(source Source, analyzer *importcheck.Analyzer, opts Options) *Checker {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(spanRun)
	}

	return &Checker{
		source:   source,
		analyzer: analyzer,
		workers:  max(opts.Workers, 1),
		progress: opts.Progress,
		logger:   logger,
		tracer:   tracer,
		metrics:  opts.Metrics,
	}
}

type outcome struct {
	finding importcheck.FileFinding
	readErr error
}

// Run scans, analyses every file and returns the finalized result. Files are
// reported in traversal order whatever the worker count. A file that cannot
// be read is logged and skipped.
func (c *Checker) Run(ctx context.Context) (*report.RunResult, error) {
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, spanRun)
	defer span.End()

	files, err := c.source.Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")

		return nil, fmt.Errorf("scan: %w", err)
	}

	span.SetAttributes(attribute.Int("importcheck.files", len(files)))
	c.logger.DebugContext(ctx, "scan complete", "files", len(files), "workers", c.workers)

	outcomes, err := c.analyzeAll(ctx, files)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "run cancelled")

		return nil, err
	}

	result, err := c.aggregate(ctx, files, outcomes)
	if err != nil {
		return nil, err
	}

	c.metrics.RecordRun(ctx, time.Since(start))
	span.SetAttributes(
		attribute.Int("importcheck.unused", result.Stats.TotalUnusedImports),
		attribute.Int("importcheck.duplicates", result.Stats.TotalDuplicateImports),
	)

	return result, nil
}

func (c *Checker) aggregate(ctx context.Context, files []scanner.File, outcomes []outcome) (*report.RunResult, error) {
	agg := report.NewAggregator()

	for i, out := range outcomes {
		if out.readErr != nil {
			c.logger.WarnContext(ctx, "skipping unreadable file", "path", files[i].Path, "error", out.readErr)

			addErr := agg.AddReadFailure()
			if addErr != nil {
				return nil, fmt.Errorf("aggregate: %w", addErr)
			}

			continue
		}

		addErr := agg.Add(out.finding)
		if addErr != nil {
			return nil, fmt.Errorf("aggregate: %w", addErr)
		}
	}

	result, err := agg.Finalize()
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	return result, nil
}

func (c *Checker) analyzeAll(ctx context.Context, files []scanner.File) ([]outcome, error) {
	outcomes := make([]outcome, len(files))
	bar := c.newProgressBar(len(files))

	jobs := make(chan int)

	var wg sync.WaitGroup

	for range min(c.workers, max(len(files), 1)) {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range jobs {
				outcomes[idx] = c.analyzeFile(ctx, files[idx])

				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

	var cancelErr error

	for idx := range files {
		ctxErr := ctx.Err()
		if ctxErr != nil {
			cancelErr = ctxErr

			break
		}

		jobs <- idx
	}

	close(jobs)
	wg.Wait()

	if cancelErr != nil {
		return nil, fmt.Errorf("run cancelled: %w", cancelErr)
	}

	if bar != nil {
		_ = bar.Finish()
	}

	return outcomes, nil
}

func (c *Checker) analyzeFile(ctx context.Context, file scanner.File) outcome {
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, spanFile, trace.WithAttributes(attribute.String("file.path", file.Path)))
	defer span.End()

	content, err := c.source.ReadFile(file.Path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		c.metrics.RecordReadFailure(ctx)

		return outcome{finding: importcheck.FileFinding{Path: file.Path}, readErr: err}
	}

	finding := c.analyzer.Analyze(file.Path, content)
	c.metrics.RecordFile(ctx, len(finding.Unused), len(finding.Duplicates), time.Since(start))

	return outcome{finding: finding}
}

func (c *Checker) newProgressBar(total int) *progressbar.ProgressBar {
	if c.progress == nil || total == 0 {
		return nil
	}

	out := c.progress

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Checking imports"),
		progressbar.OptionSetWidth(progressWidth),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(progressThrottle),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(out)
		}),
	)
}
