package persist

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FilePerm is the permission applied to files written by this package.
const FilePerm os.FileMode = 0o644

// ScriptPerm is the permission applied to generated shell scripts.
const ScriptPerm os.FileMode = 0o755

// WriteFileAtomic renders content with write and places it at path in one
// rename. If write or any filesystem step fails, path is left untouched and
// no temporary file remains.
func WriteFileAtomic(path string, perm os.FileMode, write func(w io.Writer) error) error {
	var buf bytes.Buffer

	renderErr := write(&buf)
	if renderErr != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), renderErr)
	}

	tmp, createErr := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if createErr != nil {
		return fmt.Errorf("create temp file: %w", createErr)
	}

	tmpPath := tmp.Name()

	commitErr := commitTemp(tmp, buf.Bytes(), perm)
	if commitErr == nil {
		commitErr = os.Rename(tmpPath, path)
	}

	if commitErr != nil {
		removeErr := os.Remove(tmpPath)
		if removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			commitErr = errors.Join(commitErr, removeErr)
		}

		return fmt.Errorf("write %s: %w", path, commitErr)
	}

	return nil
}

func commitTemp(fd *os.File, data []byte, perm os.FileMode) error {
	_, writeErr := fd.Write(data)
	if writeErr != nil {
		fd.Close()

		return fmt.Errorf("write temp file: %w", writeErr)
	}

	syncErr := fd.Sync()
	if syncErr != nil {
		fd.Close()

		return fmt.Errorf("sync temp file: %w", syncErr)
	}

	closeErr := fd.Close()
	if closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}

	chmodErr := os.Chmod(fd.Name(), perm)
	if chmodErr != nil {
		return fmt.Errorf("chmod temp file: %w", chmodErr)
	}

	return nil
}

// SaveState encodes state with codec and writes it atomically to path.
func SaveState(path string, codec Codec, state any) error {
	return WriteFileAtomic(path, FilePerm, func(w io.Writer) error {
		return codec.Encode(w, state)
	})
}

// LoadState decodes the file at path into state, which must be a pointer.
func LoadState(path string, codec Codec, state any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	err = codec.Decode(file, state)
	if err != nil {
		return fmt.Errorf("decode state: %w", err)
	}

	return nil
}
