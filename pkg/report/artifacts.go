package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/importcheck/pkg/persist"
)

// Default artifact names, written into the scanned root.
const (
	ReportFileName = "import-check-report.json"
	ScriptFileName = "fix-unused-imports.sh"
)

// WriteReport validates result and writes it as indented JSON to path. An
// invalid result is never written, and a failed write leaves any existing
// file untouched.
func WriteReport(path string, result *RunResult) error {
	validateErr := Validate(result)
	if validateErr != nil {
		return fmt.Errorf("refusing to write %s: %w", filepath.Base(path), validateErr)
	}

	return persist.SaveState(path, persist.NewJSONCodec(), result)
}

// WriteScript writes the review script for the unused imports of result to
// path. Nothing is written when there are no unused imports; the returned
// bool reports whether a file was produced.
func WriteScript(path string, result *RunResult) (bool, error) {
	if len(result.UnusedImports) == 0 {
		return false, nil
	}

	err := persist.WriteFileAtomic(path, persist.ScriptPerm, func(w io.Writer) error {
		return RenderScript(w, result)
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// RenderScript writes the review script. Every removal is a comment; the
// script changes nothing when run.
func RenderScript(w io.Writer, result *RunResult) error {
	lines := []string{
		"#!/bin/bash",
		"# Auto-generated script to remove unused imports",
		"# Review before running!",
		"",
	}

	for _, entry := range result.UnusedImports {
		lines = append(lines, "# Fix "+entry.File)

		for _, desc := range entry.Unused {
			lines = append(lines, "# Remove: "+desc)
		}

		lines = append(lines, "")
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	if err != nil {
		return fmt.Errorf("write script: %w", err)
	}

	return nil
}
