package persist

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRender = errors.New("render failed")

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, WriteFileAtomic(path, ScriptPerm, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")

		return err
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, ScriptPerm, info.Mode().Perm())

	assertOnlyFiles(t, dir, "out.txt")
}

func TestWriteFileAtomic_RenderFailureKeepsPrevious(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(path, []byte("previous"), FilePerm))

	err := WriteFileAtomic(path, FilePerm, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")

		return errRender
	})
	require.ErrorIs(t, err, errRender)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "previous", string(data))

	assertOnlyFiles(t, dir, "report.json")
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "report.json")

	err := WriteFileAtomic(path, FilePerm, func(w io.Writer) error {
		_, writeErr := io.WriteString(w, "{}")

		return writeErr
	})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveAndLoadState(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	want := sample{Name: "state", Count: 3, Tags: []string{"a", "b"}}

	require.NoError(t, SaveState(path, NewJSONCodec(), want))

	var got sample
	require.NoError(t, LoadState(path, NewJSONCodec(), &got))
	assert.Equal(t, want, got)
}

func TestLoadState_MissingFile(t *testing.T) {
	t.Parallel()

	var got sample

	err := LoadState(filepath.Join(t.TempDir(), "none.json"), NewJSONCodec(), &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open state file")
}

func assertOnlyFiles(t *testing.T, dir string, names ...string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	got := make([]string, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.Name())
	}

	assert.ElementsMatch(t, names, got)
}
