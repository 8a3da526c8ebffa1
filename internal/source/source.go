// Package source provides document sources for ingestion: local files and
// directories, and GitHub repository directories.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrDocumentNotFound indicates a source document does not exist at the
// attempted path.
var ErrDocumentNotFound = errors.New("source document not found")

// Document is one named document with its extracted text.
type Document struct {
	Name string // Relative path or file name
	Text string // Full document text
}

// Source lists and fetches documents for ingestion.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Fetch(ctx context.Context, name string) (*Document, error)
}

// textExtensions are the document types a source yields.
var textExtensions = map[string]bool{
	".md":  true,
	".txt": true,
}

// FileSource reads documents from a local file or directory.
type FileSource struct {
	root string
}

// NewFileSource creates a source over the given path. A single file yields
// one document; a directory yields every .md and .txt file beneath it.
func NewFileSource(root string) *FileSource {
	return &FileSource{root: root}
}

// List returns the relative paths of all documents under the root.
func (f *FileSource) List(ctx context.Context) ([]string, error) {
	info, err := os.Stat(f.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, f.root)
		}
		return nil, fmt.Errorf("stat %s: %w", f.root, err)
	}

	if !info.IsDir() {
		return []string{filepath.Base(f.root)}, nil
	}

	var docs []string
	err = filepath.WalkDir(f.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !textExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(f.root, path)
		if err != nil {
			return err
		}
		docs = append(docs, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", f.root, err)
	}

	return docs, nil
}

// Fetch reads one document by its relative path.
func (f *FileSource) Fetch(ctx context.Context, name string) (*Document, error) {
	path := f.root
	if info, err := os.Stat(f.root); err == nil && info.IsDir() {
		path = filepath.Join(f.root, filepath.FromSlash(name))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &Document{
		Name: name,
		Text: string(data),
	}, nil
}
