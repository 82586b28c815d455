package report

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed report.schema.json
var reportSchema []byte

// ErrInvalidReport is returned when a result does not satisfy the report schema
// or its own counters.
var ErrInvalidReport = errors.New("invalid report")

// Validate checks result against the embedded JSON schema and verifies that
// the stats agree with the entry lists.
func Validate(result *RunResult) error {
	validation, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(reportSchema),
		gojsonschema.NewGoLoader(result),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if !validation.Valid() {
		problems := make([]string, 0, len(validation.Errors()))
		for _, verr := range validation.Errors() {
			problems = append(problems, verr.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidReport, strings.Join(problems, "; "))
	}

	return checkCounters(result)
}

func checkCounters(result *RunResult) error {
	unused := 0
	for _, e := range result.UnusedImports {
		unused += len(e.Unused)
	}

	duplicates := 0
	for _, e := range result.DuplicateImports {
		duplicates += len(e.Duplicates)
	}

	stats := result.Stats

	switch {
	case stats.TotalUnusedImports != unused:
		return fmt.Errorf("%w: total_unused_imports is %d, entries hold %d",
			ErrInvalidReport, stats.TotalUnusedImports, unused)
	case stats.TotalDuplicateImports != duplicates:
		return fmt.Errorf("%w: total_duplicate_imports is %d, entries hold %d",
			ErrInvalidReport, stats.TotalDuplicateImports, duplicates)
	case stats.FilesWithUnused != len(result.UnusedImports):
		return fmt.Errorf("%w: files_with_unused is %d, %d entries",
			ErrInvalidReport, stats.FilesWithUnused, len(result.UnusedImports))
	case stats.FilesWithDuplicates != len(result.DuplicateImports):
		return fmt.Errorf("%w: files_with_duplicates is %d, %d entries",
			ErrInvalidReport, stats.FilesWithDuplicates, len(result.DuplicateImports))
	}

	return nil
}
