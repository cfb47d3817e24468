// Package inbox implements the manuscript drop folder: plain-text files
// placed in the inbox directory are imported as books and archived.
package inbox

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// processedDir is where imported files are archived, relative to the
// inbox root.
const processedDir = "processed"

// Dir is a manuscript inbox rooted at a directory on the local file
// system. The directory must already exist.
type Dir struct {
	root string // absolute path to the inbox directory
}

// NewDir creates an inbox over the given directory.
func NewDir(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("inbox: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("inbox: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox: root is not a directory: %s", abs)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute inbox path.
func (d *Dir) Root() string { return d.root }

// safePath resolves a relative path against the inbox root and rejects
// any result that escapes it (directory traversal).
func (d *Dir) safePath(rel string) (string, error) {
	cleaned := filepath.Clean(rel)
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("inbox: empty path")
	}
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("inbox: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(d.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("inbox: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, d.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("inbox: path escapes inbox root: %s", rel)
	}
	return abs, nil
}

// IsManuscript reports whether a file name looks like a droppable
// manuscript (.txt or .md).
func IsManuscript(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return true
	}
	return false
}

// Scan returns the names of pending manuscript files at the top level
// of the inbox, sorted. Archived files and subdirectories are skipped.
func (d *Dir) Scan() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("inbox: scan: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !IsManuscript(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// Read returns the contents of a pending inbox file.
func (d *Dir) Read(name string) (string, error) {
	abs, err := d.safePath(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("inbox: read %s: %w", name, err)
	}
	return string(data), nil
}

// Archive moves a processed file into the processed/ subdirectory. A
// name collision gets a timestamp prefix instead of overwriting the
// earlier archive.
func (d *Dir) Archive(name string) error {
	src, err := d.safePath(name)
	if err != nil {
		return err
	}
	destDir := filepath.Join(d.root, processedDir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("inbox: mkdir processed: %w", err)
	}
	dest := filepath.Join(destDir, filepath.Base(name))
	if _, err := os.Stat(dest); err == nil {
		stamp := time.Now().UTC().Format("20060102T150405")
		dest = filepath.Join(destDir, stamp+"-"+filepath.Base(name))
	}
	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("inbox: archive %s: %w", name, err)
	}
	return nil
}

// TitleFor derives a book title from an inbox file name: the extension
// is dropped and underscores become spaces.
func TitleFor(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return strings.TrimSpace(strings.ReplaceAll(stem, "_", " "))
}
