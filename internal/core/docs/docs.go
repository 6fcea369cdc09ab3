// Package docs discovers and loads markdown documents for viewing.
package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Document represents a viewable markdown file.
type Document struct {
	Path    string // Absolute path
	RelPath string // Relative to the discovery root
	ModTime time.Time
	Content string // Raw content, loaded on demand
}

// Discover returns markdown documents under root matching the include
// patterns, newest first. Duplicate matches across patterns are collapsed.
func Discover(root string, include []string) ([]Document, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	seen := make(map[string]bool)
	var found []Document

	for _, pattern := range include {
		matches, err := doublestar.FilepathGlob(filepath.Join(absRoot, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}

		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true

			doc, ok := statDocument(absRoot, path)
			if !ok {
				continue
			}
			found = append(found, doc)
		}
	}

	sortNewestFirst(found)
	return found, nil
}

// Glob resolves a single doublestar pattern relative to the working directory,
// newest first.
func Glob(pattern string) ([]Document, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	wd, _ := os.Getwd()
	var found []Document
	for _, path := range matches {
		doc, ok := statDocument(wd, path)
		if !ok {
			continue
		}
		found = append(found, doc)
	}

	sortNewestFirst(found)
	return found, nil
}

func statDocument(root, path string) (Document, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Document{}, false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	relPath, err := filepath.Rel(root, abs)
	if err != nil || relPath == "" {
		relPath = abs
	}

	return Document{
		Path:    abs,
		RelPath: relPath,
		ModTime: info.ModTime(),
	}, true
}

func sortNewestFirst(found []Document) {
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].ModTime.After(found[j].ModTime)
	})
}

// Open stats and loads a single document by path.
func Open(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	doc := &Document{Path: abs, RelPath: filepath.Base(abs)}
	if err := doc.Load(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Load reads the document content from disk and refreshes its mod time.
func (d *Document) Load() error {
	info, err := os.Stat(d.Path)
	if err != nil {
		return fmt.Errorf("stat document: %w", err)
	}

	content, err := os.ReadFile(d.Path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	d.ModTime = info.ModTime()
	d.Content = string(content)
	return nil
}

// Changed reports whether the file's mod time differs from the loaded copy.
func (d *Document) Changed() bool {
	info, err := os.Stat(d.Path)
	if err != nil {
		return false
	}
	return !info.ModTime().Equal(d.ModTime)
}
