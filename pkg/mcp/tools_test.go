package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importcheck/pkg/observability"
	"github.com/Sumatoshi-tech/importcheck/pkg/report"
)

func newTestServer() *Server {
	return NewServer(ServerDeps{
		Logger: observability.Discard(),
		Scan:   ScanDefaults{Exclude: []string{"node_modules"}},
	})
}

func resultText(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestHandleAnalyze(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	result, output, err := srv.handleAnalyze(context.Background(), &mcpsdk.CallToolRequest{}, AnalyzeInput{
		Code: "import { A, B as C } from 'm';\nimport { A } from 'm';\nA();\n",
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	data, ok := output.Data.(AnalyzeResult)
	require.True(t, ok)

	assert.Equal(t, "input.ts", data.File)
	assert.Equal(t, []string{"B from 'm'"}, data.Unused)
	assert.Equal(t, []string{"A from 'm'"}, data.Duplicates)
	assert.Len(t, data.Bindings, 3)

	var decoded AnalyzeResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	assert.Equal(t, data.Unused, decoded.Unused)
}

func TestHandleAnalyze_AliasKeyOverride(t *testing.T) {
	t.Parallel()

	srv := newTestServer()
	code := "import { B as C } from 'm';\nC();\n"

	_, local, err := srv.handleAnalyze(context.Background(), nil, AnalyzeInput{Code: code, Filename: "x.ts"})
	require.NoError(t, err)
	assert.Empty(t, local.Data.(AnalyzeResult).Unused)

	_, imported, err := srv.handleAnalyze(context.Background(), nil, AnalyzeInput{Code: code, AliasKey: "imported"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B from 'm'"}, imported.Data.(AnalyzeResult).Unused)
}

func TestHandleAnalyze_InvalidInput(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	tests := []struct {
		name  string
		input AnalyzeInput
		want  string
	}{
		{name: "empty code", input: AnalyzeInput{}, want: "code parameter is required"},
		{name: "too large", input: AnalyzeInput{Code: strings.Repeat("x", MaxCodeInputBytes+1)}, want: "exceeds maximum size"},
		{name: "bad alias key", input: AnalyzeInput{Code: "x", AliasKey: "both"}, want: "unknown alias key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, _, err := srv.handleAnalyze(context.Background(), nil, tt.input)
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
}

func TestHandleScan(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "dep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.ts"), []byte("import { A } from 'm';\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "dep", "b.ts"), []byte("import { B } from 'm';\n"), 0o600))

	srv := newTestServer()

	result, output, err := srv.handleScan(context.Background(), nil, ScanInput{Path: root})
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	run, ok := output.Data.(*report.RunResult)
	require.True(t, ok)

	assert.Equal(t, 1, run.Stats.TotalFiles)
	assert.Equal(t, []report.UnusedEntry{{File: "src/a.ts", Unused: []string{"A from 'm'"}}}, run.UnusedImports)

	_, output, err = srv.handleScan(context.Background(), nil, ScanInput{Path: root, Exclude: []string{}})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Data.(*report.RunResult).Stats.TotalFiles)
}

func TestHandleScan_InvalidInput(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	tests := []struct {
		name  string
		input ScanInput
		want  string
	}{
		{name: "empty path", input: ScanInput{}, want: "path parameter is required"},
		{name: "relative path", input: ScanInput{Path: "relative/dir"}, want: "absolute path"},
		{name: "missing path", input: ScanInput{Path: "/nonexistent/importcheck/dir"}, want: "does not exist"},
		{name: "bad pattern", input: ScanInput{Path: "/", Ignore: []string{"[a-"}}, want: "invalid ignore pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, _, err := srv.handleScan(context.Background(), nil, tt.input)
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
}

func TestListToolNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{ToolNameAnalyze, ToolNameScan}, newTestServer().ListToolNames())
}
