package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/chmouel/go-wfc-report/internal/excerpt"
	"github.com/chmouel/go-wfc-report/internal/model"
)

// DefaultParallel bounds concurrent test file reads.
const DefaultParallel = 8

// FileError means one generated test file could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("reading test file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// FileSink receives test files as they resolve, in no particular order.
// Implementations must be safe for concurrent use.
type FileSink interface {
	AddFile(model.TestFile)
	FileFailed(*FileError)
}

// LoadTestFiles reads every path relative to root and hands each result to
// sink. A failing file never stops the others; the returned error is only
// set when ctx is cancelled.
func LoadTestFiles(ctx context.Context, root string, paths []string, parallel int, sink FileSink) error {
	if parallel <= 0 {
		parallel = DefaultParallel
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	seen := map[string]struct{}{}
	for _, p := range paths {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			full := p
			if !filepath.IsAbs(full) {
				full = filepath.Join(root, p)
			}
			data, err := os.ReadFile(full) //nolint:gosec // path comes from the report's testFilePaths
			if err != nil {
				sink.FileFailed(&FileError{Path: p, Err: err})
				return nil
			}
			sink.AddFile(model.TestFile{Path: p, Code: string(data), Language: excerpt.Language(p)})
			return nil
		})
	}
	return g.Wait()
}

// TestFiles merges loaded files by path.
type TestFiles struct {
	mu     sync.Mutex
	byPath map[string]model.TestFile
	errs   []*FileError
}

// NewTestFiles returns an empty collection.
func NewTestFiles() *TestFiles {
	return &TestFiles{byPath: map[string]model.TestFile{}}
}

// AddFile implements FileSink.
func (t *TestFiles) AddFile(f model.TestFile) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byPath[f.Path] = f
}

// FileFailed implements FileSink.
func (t *TestFiles) FileFailed(err *FileError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errs = append(t.errs, err)
}

// Get returns the file loaded for path.
func (t *TestFiles) Get(path string) (model.TestFile, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	f, ok := t.byPath[path]
	return f, ok
}

// Files returns the loaded files sorted by path.
func (t *TestFiles) Files() []model.TestFile {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.TestFile, 0, len(t.byPath))
	for _, f := range t.byPath {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Errors returns the per-file failures sorted by path.
func (t *TestFiles) Errors() []*FileError {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*FileError, len(t.errs))
	copy(out, t.errs)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
