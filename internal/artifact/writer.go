// Package artifact persists composed fragments under the output directory.
package artifact

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sidebyside/internal/logfields"
)

// ErrWriteFailed indicates the output directory or an artifact could not be written.
var ErrWriteFailed = errors.New("artifact write failed")

// Extension is the suffix given to every artifact.
const Extension = ".html"

// Artifact is a fragment persisted for one example.
type Artifact struct {
	OutputPath string
	HTML       string
}

// OutputPath maps an example basename to its artifact path: the source
// extension is replaced with .html. A basename without that extension keeps
// its full name.
func OutputPath(outDir, basename, sourceExt string) string {
	return filepath.Join(outDir, strings.TrimSuffix(basename, sourceExt)+Extension)
}

// EnsureDir creates dir and its parents. An existing directory is not an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrWriteFailed, dir, err)
	}
	return nil
}

// WriteFileAtomic writes data to path through a temporary sibling that is
// renamed into place, so readers see either the old file or the full new one.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write %s: %w", ErrWriteFailed, path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close %s: %w", ErrWriteFailed, path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("%w: chmod %s: %w", ErrWriteFailed, path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("%w: replace %s: %w", ErrWriteFailed, path, err)
	}
	return nil
}

// Writer writes artifacts into one output directory, creating it on first use.
type Writer struct {
	dir       string
	sourceExt string
	ensured   bool
}

// NewWriter creates a writer for outDir; sourceExt is stripped from example
// basenames when naming artifacts.
func NewWriter(outDir, sourceExt string) *Writer {
	return &Writer{dir: outDir, sourceExt: sourceExt}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Write stores html as the artifact for the example named basename,
// overwriting any previous artifact.
func (w *Writer) Write(basename, html string) (Artifact, error) {
	if !w.ensured {
		if err := EnsureDir(w.dir); err != nil {
			return Artifact{}, err
		}
		w.ensured = true
	}
	path := OutputPath(w.dir, basename, w.sourceExt)
	if err := WriteFileAtomic(path, []byte(html)); err != nil {
		return Artifact{}, err
	}
	slog.Debug("Wrote artifact", logfields.Output(path), logfields.Bytes(len(html)))
	return Artifact{OutputPath: path, HTML: html}, nil
}
