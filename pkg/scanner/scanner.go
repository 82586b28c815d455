// Package scanner enumerates the source files of a directory tree that an
// import check should read.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
	"github.com/src-d/enry/v2"
)

// Sentinel errors.
var (
	ErrRootNotFound   = errors.New("root directory not found")
	ErrRootNotDir     = errors.New("root is not a directory")
	ErrInvalidPattern = errors.New("invalid ignore pattern")
)

// Options controls which files a Scanner selects.
type Options struct {
	// Extensions are the selected file extensions, including the dot.
	Extensions []string

	// Exclude are path fragments. Any path containing one is skipped.
	Exclude []string

	// Ignore are glob patterns matched against slash-separated relative paths.
	Ignore []string

	// SkipVendor skips paths that look vendored.
	SkipVendor bool

	// MaxFileSize skips larger files. Zero means unlimited.
	MaxFileSize int64

	Logger *slog.Logger
}

// File is a selected file.
type File struct {
	// Path is slash-separated and relative to the scan root.
	Path string
	Size int64
}

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Scanner walks an fs.FS in lexical order.
type Scanner struct {
	fsys    fs.FS
	root    string
	opts    Options
	ignores []compiledPattern
	logger  *slog.Logger
}

// New creates a Scanner over fsys. root is only used for display.
func New(fsys fs.FS, root string, opts Options) (*Scanner, error) {
	ignores := make([]compiledPattern, 0, len(opts.Ignore))

	for _, pattern := range opts.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
		}

		ignores = append(ignores, compiledPattern{pattern: pattern, glob: g})
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scanner{fsys: fsys, root: root, opts: opts, ignores: ignores, logger: logger}, nil
}

// NewDir creates a Scanner over a directory on disk. A missing root is an error.
func NewDir(root string, opts Options) (*Scanner, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}

		return nil, fmt.Errorf("stat root: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDir, root)
	}

	return New(os.DirFS(root), root, opts)
}

// Root returns the root the scanner was created for.
func (s *Scanner) Root() string {
	return s.root
}

// ReadFile reads a file returned by Scan.
func (s *Scanner) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(s.fsys, name)
}

// Scan returns the selected files in traversal order. Unreadable
// subdirectories are logged and skipped; an unreadable root is an error.
func (s *Scanner) Scan(ctx context.Context) ([]File, error) {
	var files []File

	err := fs.WalkDir(s.fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		ctxErr := ctx.Err()
		if ctxErr != nil {
			return ctxErr
		}

		if walkErr != nil {
			if name == "." {
				return walkErr
			}

			s.logger.WarnContext(ctx, "skipping unreadable path", "path", name, "error", walkErr)

			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if name == "." {
			return nil
		}

		if entry.IsDir() {
			if s.excluded(name, true) {
				return fs.SkipDir
			}

			return nil
		}

		if !s.selected(name) || s.excluded(name, false) {
			return nil
		}

		file, ok := s.describe(ctx, name, entry)
		if ok {
			files = append(files, file)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}

	return files, nil
}

func (s *Scanner) describe(ctx context.Context, name string, entry fs.DirEntry) (File, bool) {
	info, err := entry.Info()
	if err != nil {
		s.logger.WarnContext(ctx, "skipping file without info", "path", name, "error", err)

		return File{}, false
	}

	if s.opts.MaxFileSize > 0 && info.Size() > s.opts.MaxFileSize {
		s.logger.WarnContext(ctx, "skipping large file",
			"path", name,
			"size", humanize.IBytes(uint64(info.Size())),
			"limit", humanize.IBytes(uint64(s.opts.MaxFileSize)))

		return File{}, false
	}

	return File{Path: name, Size: info.Size()}, true
}

func (s *Scanner) selected(name string) bool {
	return slices.Contains(s.opts.Extensions, path.Ext(name))
}

func (s *Scanner) excluded(name string, isDir bool) bool {
	for _, fragment := range s.opts.Exclude {
		if fragment != "" && strings.Contains(name, fragment) {
			return true
		}
	}

	if s.opts.SkipVendor {
		vendorPath := name
		if isDir {
			vendorPath += "/"
		}

		if enry.IsVendor(vendorPath) {
			return true
		}
	}

	if s.matchesAny(name) {
		return true
	}

	// A directory matching "dir/**" is skipped as a whole.
	return isDir && s.matchesAny(name+"/**")
}

func (s *Scanner) matchesAny(name string) bool {
	for _, cp := range s.ignores {
		if cp.glob.Match(name) {
			return true
		}
	}

	// "**/x" also matches x at the root.
	if !strings.Contains(name, "/") {
		for _, cp := range s.ignores {
			simplified, ok := strings.CutPrefix(cp.pattern, "**/")
			if !ok {
				continue
			}

			g, err := glob.Compile(simplified, '/')
			if err == nil && g.Match(name) {
				return true
			}
		}
	}

	return false
}
