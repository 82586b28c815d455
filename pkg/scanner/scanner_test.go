package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importcheck/pkg/observability"
)

func defaultOptions() Options {
	return Options{
		Extensions: []string{".ts", ".tsx"},
		Exclude:    []string{"node_modules", "dist", "out", ".git", "coverage"},
		Logger:     observability.Discard(),
	}
}

func source(text string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(text)}
}

func paths(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}

	return out
}

func scan(t *testing.T, fsys fs.FS, opts Options) []string {
	t.Helper()

	s, err := New(fsys, "/repo", opts)
	require.NoError(t, err)

	files, err := s.Scan(context.Background())
	require.NoError(t, err)

	return paths(files)
}

func TestScan_SelectsExtensionsInLexicalOrder(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"src/b.ts":         source("b"),
		"src/a.tsx":        source("a"),
		"src/c.js":         source("c"),
		"index.ts":         source("i"),
		"README.md":        source("r"),
		"src/nested/z.ts":  source("z"),
		"src/nested/y.mts": source("y"),
	}

	got := scan(t, fsys, defaultOptions())

	assert.Equal(t, []string{"index.ts", "src/a.tsx", "src/b.ts", "src/nested/z.ts"}, got)
}

func TestScan_ExcludeFragments(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"node_modules/pkg/index.ts": source(""),
		"dist/bundle.ts":            source(""),
		"coverage/lcov.ts":          source(""),
		".git/hooks/x.ts":           source(""),
		"src/app.ts":                source(""),
		"src/layout/page.ts":        source(""),
	}

	got := scan(t, fsys, defaultOptions())

	// Fragments match anywhere in the path: "layout" contains "out".
	assert.Equal(t, []string{"src/app.ts"}, got)
}

func TestScan_IgnoreGlobs(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"types.d.ts":            source(""),
		"src/api.d.ts":          source(""),
		"src/api.ts":            source(""),
		"generated/client.ts":   source(""),
		"src/generated/more.ts": source(""),
	}

	opts := defaultOptions()
	opts.Ignore = []string{"**/*.d.ts", "**/generated/**", "generated"}

	got := scan(t, fsys, opts)

	assert.Equal(t, []string{"src/api.ts"}, got)
}

func TestScan_InvalidPattern(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.Ignore = []string{"src/[a-"}

	_, err := New(fstest.MapFS{}, ".", opts)
	require.ErrorIs(t, err, ErrInvalidPattern)
}

func TestScan_SkipVendor(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"vendor/lib.ts": source(""),
		"src/main.ts":   source(""),
	}

	opts := defaultOptions()
	assert.Equal(t, []string{"src/main.ts", "vendor/lib.ts"}, scan(t, fsys, opts))

	opts.SkipVendor = true
	assert.Equal(t, []string{"src/main.ts"}, scan(t, fsys, opts))
}

func TestScan_MaxFileSize(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"big.ts":   source(strings.Repeat("x", 2048)),
		"small.ts": source("x"),
	}

	opts := defaultOptions()
	opts.MaxFileSize = 1024

	assert.Equal(t, []string{"small.ts"}, scan(t, fsys, opts))
}

type unreadableDirFS struct {
	fstest.MapFS
	dir string
}

func (u unreadableDirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name == u.dir {
		return nil, fs.ErrPermission
	}

	return u.MapFS.ReadDir(name)
}

func TestScan_UnreadableSubdirectorySkipped(t *testing.T) {
	t.Parallel()

	fsys := unreadableDirFS{
		MapFS: fstest.MapFS{
			"locked/secret.ts": source(""),
			"open/ok.ts":       source(""),
		},
		dir: "locked",
	}

	assert.Equal(t, []string{"open/ok.ts"}, scan(t, fsys, defaultOptions()))
}

func TestScan_UnreadableRootFails(t *testing.T) {
	t.Parallel()

	fsys := unreadableDirFS{MapFS: fstest.MapFS{"a.ts": source("")}, dir: "."}

	s, err := New(fsys, "/repo", defaultOptions())
	require.NoError(t, err)

	_, err = s.Scan(context.Background())
	require.ErrorIs(t, err, fs.ErrPermission)
}

func TestScan_Cancelled(t *testing.T) {
	t.Parallel()

	s, err := New(fstest.MapFS{"a.ts": source("")}, ".", defaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Scan(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.ts"), []byte("import A from 'a';"), 0o600))

	s, err := NewDir(root, defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, root, s.Root())

	files, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := s.ReadFile(files[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "import A from 'a';", string(data))
	assert.Equal(t, int64(len(data)), files[0].Size)
}

func TestNewDir_Errors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	_, err := NewDir(filepath.Join(root, "missing"), defaultOptions())
	require.ErrorIs(t, err, ErrRootNotFound)

	file := filepath.Join(root, "file.ts")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err = NewDir(file, defaultOptions())
	require.ErrorIs(t, err, ErrRootNotDir)
}
