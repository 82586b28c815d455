// Package report aggregates per-file import findings into a run result and
// renders, validates and persists it.
package report

import "errors"

// ErrUnusedImportsFound is returned by RunResult.Verdict when at least one
// unused import was reported.
var ErrUnusedImportsFound = errors.New("unused imports found")

// UnusedEntry lists the unused bindings of one file.
type UnusedEntry struct {
	File   string   `json:"file"   yaml:"file"`
	Unused []string `json:"unused" yaml:"unused"`
}

// DuplicateEntry lists the repeated bindings of one file.
type DuplicateEntry struct {
	File       string   `json:"file"       yaml:"file"`
	Duplicates []string `json:"duplicates" yaml:"duplicates"`
}

// MissingEntry lists identifiers used without an import. Reserved: the
// lexical analysis never produces it.
type MissingEntry struct {
	File    string   `json:"file"    yaml:"file"`
	Missing []string `json:"missing" yaml:"missing"`
}

// Stats holds the summary counters of a run.
type Stats struct {
	TotalFiles            int `json:"total_files"             yaml:"total_files"`
	FilesWithUnused       int `json:"files_with_unused"       yaml:"files_with_unused"`
	FilesWithDuplicates   int `json:"files_with_duplicates"   yaml:"files_with_duplicates"`
	TotalUnusedImports    int `json:"total_unused_imports"    yaml:"total_unused_imports"`
	TotalDuplicateImports int `json:"total_duplicate_imports" yaml:"total_duplicate_imports"`
	ReadFailures          int `json:"read_failures"           yaml:"read_failures"`
}

// RunResult is the finalized outcome of a run. Only files with findings
// appear in the lists, in scan order.
type RunResult struct {
	UnusedImports    []UnusedEntry    `json:"unused_imports"    yaml:"unused_imports"`
	DuplicateImports []DuplicateEntry `json:"duplicate_imports" yaml:"duplicate_imports"`
	MissingImports   []MissingEntry   `json:"missing_imports"   yaml:"missing_imports"`
	Stats            Stats            `json:"stats"             yaml:"stats"`
}

// NewRunResult returns an empty result whose lists encode as [] rather than null.
func NewRunResult() *RunResult {
	return &RunResult{
		UnusedImports:    []UnusedEntry{},
		DuplicateImports: []DuplicateEntry{},
		MissingImports:   []MissingEntry{},
	}
}

// Verdict returns ErrUnusedImportsFound when the run reported unused imports.
// Duplicates alone do not fail a run.
func (r *RunResult) Verdict() error {
	if r.Stats.TotalUnusedImports > 0 {
		return ErrUnusedImportsFound
	}

	return nil
}
