package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/importcheck/pkg/checker"
	"github.com/Sumatoshi-tech/importcheck/pkg/importcheck"
	"github.com/Sumatoshi-tech/importcheck/pkg/scanner"
)

// Tool name constants.
const (
	ToolNameAnalyze = "importcheck_analyze"
	ToolNameScan    = "importcheck_scan"
)

// Input size limits.
const (
	// MaxCodeInputBytes is the maximum allowed size for inline code input (1 MB).
	MaxCodeInputBytes = 1 << 20
)

const defaultFilename = "input.ts"

// Sentinel errors for tool input validation.
var (
	// ErrEmptyCode indicates the code parameter is empty.
	ErrEmptyCode = errors.New("code parameter is required and must not be empty")
	// ErrCodeTooLarge indicates the code input exceeds the size limit.
	ErrCodeTooLarge = errors.New("code input exceeds maximum size")
	// ErrEmptyPath indicates the path parameter is empty.
	ErrEmptyPath = errors.New("path parameter is required and must not be empty")
	// ErrPathNotAbsolute indicates the path is not an absolute path.
	ErrPathNotAbsolute = errors.New("path must be an absolute path")
	// ErrPathNotFound indicates the directory does not exist.
	ErrPathNotFound = errors.New("path does not exist")
)

// Input types (auto-generate JSON schemas via struct tags).

// AnalyzeInput is the input schema for the importcheck_analyze tool.
type AnalyzeInput struct {
	AliasKey string `json:"alias_key,omitempty" jsonschema:"which name of 'A as B' must be referenced: local (default) or imported"`
	Code     string `json:"code"                jsonschema:"TypeScript source code to check"`
	Filename string `json:"filename,omitempty"  jsonschema:"optional file name used in the result (default: input.ts)"`
}

// ScanInput is the input schema for the importcheck_scan tool.
type ScanInput struct {
	Exclude  []string `json:"exclude,omitempty"   jsonschema:"path fragments to skip, replacing the defaults"`
	Ignore   []string `json:"ignore,omitempty"    jsonschema:"extra glob patterns to skip (e.g. **/*.d.ts)"`
	AliasKey string   `json:"alias_key,omitempty" jsonschema:"which name of 'A as B' must be referenced: local (default) or imported"`
	Path     string   `json:"path"                jsonschema:"absolute path to the directory to scan"`
}

// AnalyzeResult is the data returned by importcheck_analyze.
type AnalyzeResult struct {
	File       string                `json:"file"`
	Unused     []string              `json:"unused"`
	Duplicates []string              `json:"duplicates"`
	Bindings   []importcheck.Binding `json:"bindings"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// analyzerFor applies a per-call alias key override to the server analysis config.
func (s *Server) analyzerFor(aliasKey string) (*importcheck.Analyzer, error) {
	cfg := s.analysis

	if aliasKey != "" {
		key, err := importcheck.ParseAliasKey(aliasKey)
		if err != nil {
			return nil, err
		}

		cfg.AliasKey = key
	}

	return importcheck.NewAnalyzer(cfg), nil
}

// handleAnalyze processes importcheck_analyze tool calls.
func (s *Server) handleAnalyze(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input AnalyzeInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateCodeInput(input.Code)
	if err != nil {
		return errorResult(err)
	}

	analyzer, err := s.analyzerFor(input.AliasKey)
	if err != nil {
		return errorResult(err)
	}

	filename := input.Filename
	if filename == "" {
		filename = defaultFilename
	}

	finding := analyzer.Analyze(filename, []byte(input.Code))

	return jsonResult(AnalyzeResult{
		File:       filename,
		Unused:     nonNil(finding.UnusedDescriptions()),
		Duplicates: nonNil(finding.DuplicateDescriptions()),
		Bindings:   slices.Collect(importcheck.Extract(input.Code).All()),
	})
}

// handleScan processes importcheck_scan tool calls.
func (s *Server) handleScan(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input ScanInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateScanInput(input)
	if err != nil {
		return errorResult(err)
	}

	analyzer, err := s.analyzerFor(input.AliasKey)
	if err != nil {
		return errorResult(err)
	}

	exclude := s.scan.Exclude
	if input.Exclude != nil {
		exclude = input.Exclude
	}

	source, err := scanner.NewDir(input.Path, scanner.Options{
		Extensions:  s.scan.Extensions,
		Exclude:     exclude,
		Ignore:      append(slices.Clone(s.scan.Ignore), input.Ignore...),
		SkipVendor:  s.scan.SkipVendor,
		MaxFileSize: s.scan.MaxFileSize,
		Logger:      s.logger,
	})
	if err != nil {
		return errorResult(err)
	}

	result, err := checker.New(source, analyzer, checker.Options{
		Workers: s.scan.Workers,
		Logger:  s.logger,
		Tracer:  s.tracer,
	}).Run(ctx)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(result)
}

// validateCodeInput checks common code input constraints.
func validateCodeInput(code string) error {
	if code == "" {
		return ErrEmptyCode
	}

	if len(code) > MaxCodeInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(code), MaxCodeInputBytes)
	}

	return nil
}

func validateScanInput(input ScanInput) error {
	if input.Path == "" {
		return ErrEmptyPath
	}

	if !filepath.IsAbs(input.Path) {
		return fmt.Errorf("%w: %s", ErrPathNotAbsolute, input.Path)
	}

	_, statErr := os.Stat(input.Path)
	if statErr != nil {
		return fmt.Errorf("%w: %s", ErrPathNotFound, input.Path)
	}

	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
