// Package docstore is a flat-file markdown document store. Every document
// is a single .md file under a base directory; names are normalized to the
// .md suffix and validated against path traversal before touching the disk.
package docstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hazyhaar/readpipe/safeurl"
)

// ErrExists is returned by Create when the document already exists.
var ErrExists = errors.New("docstore: document already exists")

// ErrNotFound is returned when the named document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// Store manages markdown documents under a single base directory.
type Store struct {
	base string
}

// New returns a Store rooted at base, creating the directory if needed.
func New(base string) (*Store, error) {
	if base == "" {
		base = "documents"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("docstore: mkdir %s: %w", base, err)
	}
	return &Store{base: base}, nil
}

// Base returns the store's root directory.
func (s *Store) Base() string { return s.base }

// path normalizes name to a .md file inside the base directory.
func (s *Store) path(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("docstore: empty document name")
	}
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}
	p, err := safeurl.Join(s.base, name)
	if err != nil {
		return "", fmt.Errorf("docstore: %s: %w", name, err)
	}
	return p, nil
}

// Create writes a new document. It fails with ErrExists if the name is taken.
func (s *Store) Create(name, content string) (string, error) {
	p, err := s.path(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err == nil {
		return "", fmt.Errorf("%w: %s", ErrExists, filepath.Base(p))
	}
	if err := writeAtomic(p, []byte(content)); err != nil {
		return "", err
	}
	return p, nil
}

// Read returns the content of the named document.
func (s *Store) Read(name string) (string, error) {
	p, err := s.path(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(p))
	}
	if err != nil {
		return "", fmt.Errorf("docstore: read: %w", err)
	}
	return string(data), nil
}

// Write stores content under name, creating the document if it does not
// exist. With append set, content is added after the existing text with a
// newline separator; otherwise the document is overwritten.
func (s *Store) Write(name, content string, append bool) (string, error) {
	p, err := s.path(name)
	if err != nil {
		return "", err
	}
	if append {
		if existing, err := os.ReadFile(p); err == nil {
			content = string(existing) + "\n" + content
		}
	}
	if err := writeAtomic(p, []byte(content)); err != nil {
		return "", err
	}
	return p, nil
}

// Delete removes the named document. It reports false without error when
// the document does not exist.
func (s *Store) Delete(name string) (bool, error) {
	p, err := s.path(name)
	if err != nil {
		return false, err
	}
	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("docstore: delete: %w", err)
	}
	return true, nil
}

// List returns the names of all stored documents, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.base)
	if err != nil {
		return nil, fmt.Errorf("docstore: list: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether the named document exists.
func (s *Store) Exists(name string) bool {
	p, err := s.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// writeAtomic writes via a temp file plus rename so readers never observe
// a half-written document.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".docstore-*")
	if err != nil {
		return fmt.Errorf("docstore: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("docstore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("docstore: close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("docstore: rename: %w", err)
	}
	return nil
}
