package lsp

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Sumatoshi-tech/importcheck/pkg/importcheck"
)

// Diagnostic codes.
const (
	CodeUnusedImport    = "unused-import"
	CodeDuplicateImport = "duplicate-import"
)

const diagnosticSource = "importcheck"

// BuildDiagnostics converts a file finding into LSP diagnostics. Each
// diagnostic spans the rest of the line where the declaring statement starts.
func BuildDiagnostics(text string, finding importcheck.FileFinding) []protocol.Diagnostic {
	if !finding.HasFindings() {
		return []protocol.Diagnostic{}
	}

	lines := strings.Split(text, "\n")
	diagnostics := make([]protocol.Diagnostic, 0, len(finding.Unused)+len(finding.Duplicates))

	for _, b := range finding.Unused {
		diagnostics = append(diagnostics, newDiagnostic(lines, b,
			protocol.DiagnosticSeverityWarning, CodeUnusedImport,
			fmt.Sprintf("unused import: %s", b.Description()),
			[]protocol.DiagnosticTag{protocol.DiagnosticTagUnnecessary}))
	}

	for _, b := range finding.Duplicates {
		diagnostics = append(diagnostics, newDiagnostic(lines, b,
			protocol.DiagnosticSeverityInformation, CodeDuplicateImport,
			fmt.Sprintf("duplicate import: %s", b.Description()),
			nil))
	}

	return diagnostics
}

func newDiagnostic(
	lines []string,
	b importcheck.Binding,
	severity protocol.DiagnosticSeverity,
	code, message string,
	tags []protocol.DiagnosticTag,
) protocol.Diagnostic {
	source := diagnosticSource

	return protocol.Diagnostic{
		Range:    bindingRange(lines, b),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: code},
		Source:   &source,
		Message:  message,
		Tags:     tags,
	}
}

// bindingRange converts the 1-based byte position of b to a 0-based UTF-16 range.
func bindingRange(lines []string, b importcheck.Binding) protocol.Range {
	lineIdx := max(b.Line-1, 0)
	if lineIdx >= len(lines) {
		pos := protocol.Position{Line: protocol.UInteger(lineIdx)}

		return protocol.Range{Start: pos, End: pos}
	}

	line := strings.TrimSuffix(lines[lineIdx], "\r")
	startByte := min(max(b.Column-1, 0), len(line))

	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(lineIdx), Character: utf16Len(line[:startByte])},
		End:   protocol.Position{Line: protocol.UInteger(lineIdx), Character: utf16Len(line)},
	}
}

func utf16Len(s string) protocol.UInteger {
	n := 0

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		n += utf16.RuneLen(r)
	}

	return protocol.UInteger(n)
}
