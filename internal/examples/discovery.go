// Package examples finds the example sources a run renders and reads them.
package examples

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrDirectoryNotFound indicates the examples directory does not exist.
	ErrDirectoryNotFound = errors.New("examples directory not found")
	// ErrReadFailed indicates an example file could not be read.
	ErrReadFailed = errors.New("example read failed")
)

// File is one example source found by Discover.
type File struct {
	Path     string // absolute or caller-relative path to the source
	Basename string // file name including the extension
}

// Stem returns the basename with ext removed.
func (f File) Stem(ext string) string {
	return strings.TrimSuffix(f.Basename, ext)
}

// Discover lists the regular files directly inside dir whose name ends with
// ext, sorted by name. Subdirectories are not descended into.
func Discover(dir, ext string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("list examples in %s: %w", dir, err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		files = append(files, File{
			Path:     filepath.Join(dir, entry.Name()),
			Basename: entry.Name(),
		})
	}
	// os.ReadDir already sorts, but the order is part of the output contract.
	sort.Slice(files, func(i, j int) bool { return files[i].Basename < files[j].Basename })
	return files, nil
}

// Filter keeps only the files whose basename or stem appears in names.
// An empty names list keeps everything.
func Filter(files []File, ext string, names []string) []File {
	if len(names) == 0 {
		return files
	}
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}
	out := make([]File, 0, len(names))
	for _, f := range files {
		_, byName := wanted[f.Basename]
		_, byStem := wanted[f.Stem(ext)]
		if byName || byStem {
			out = append(out, f)
		}
	}
	return out
}

// Read returns the UTF-8 text of the example, with a leading byte order mark
// removed.
func Read(f File) (string, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	defer func() { _ = fh.Close() }()

	text, err := DecodeUTF8(fh)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrReadFailed, f.Path, err)
	}
	return text, nil
}

// DecodeUTF8 reads r as UTF-8, dropping a UTF-8 byte order mark if present.
func DecodeUTF8(r io.Reader) (string, error) {
	decoder := unicode.UTF8BOM.NewDecoder()
	data, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
