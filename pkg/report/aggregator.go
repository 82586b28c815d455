package report

import (
	"errors"

	"github.com/Sumatoshi-tech/importcheck/pkg/importcheck"
)

// ErrFinalized is returned when an Aggregator is used after Finalize.
var ErrFinalized = errors.New("aggregator already finalized")

// Aggregator accumulates file findings in the order they are added.
// It is not safe for concurrent use.
type Aggregator struct {
	result    *RunResult
	finalized bool
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{result: NewRunResult()}
}

// Add records the findings of one file that was read successfully.
func (a *Aggregator) Add(finding importcheck.FileFinding) error {
	if a.finalized {
		return ErrFinalized
	}

	stats := &a.result.Stats
	stats.TotalFiles++

	if unused := finding.UnusedDescriptions(); len(unused) > 0 {
		a.result.UnusedImports = append(a.result.UnusedImports, UnusedEntry{File: finding.Path, Unused: unused})
		stats.FilesWithUnused++
		stats.TotalUnusedImports += len(unused)
	}

	if duplicates := finding.DuplicateDescriptions(); len(duplicates) > 0 {
		a.result.DuplicateImports = append(a.result.DuplicateImports,
			DuplicateEntry{File: finding.Path, Duplicates: duplicates})
		stats.FilesWithDuplicates++
		stats.TotalDuplicateImports += len(duplicates)
	}

	return nil
}

// AddReadFailure records a file that could not be read. It is not counted in
// total_files.
func (a *Aggregator) AddReadFailure() error {
	if a.finalized {
		return ErrFinalized
	}

	a.result.Stats.ReadFailures++

	return nil
}

// Finalize returns the accumulated result. It may be called once.
func (a *Aggregator) Finalize() (*RunResult, error) {
	if a.finalized {
		return nil, ErrFinalized
	}

	a.finalized = true

	return a.result, nil
}
