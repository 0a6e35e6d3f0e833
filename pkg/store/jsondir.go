package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// JSONDir stores each document as a JSON file in a directory, named after
// its key. Keys are percent-encoded in filenames so arbitrary package names
// are safe.
type JSONDir struct {
	dir string
}

// NewJSONDir creates a directory-backed store, creating dir if needed.
func NewJSONDir(dir string) (*JSONDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &JSONDir{dir: dir}, nil
}

// Dir returns the store's directory.
func (s *JSONDir) Dir() string { return s.dir }

// Has reports whether a document exists for key.
func (s *JSONDir) Has(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get retrieves the document for key.
func (s *JSONDir) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return data, err
}

// Set stores the document for key.
func (s *JSONDir) Set(ctx context.Context, key string, doc []byte) error {
	return os.WriteFile(s.path(key), doc, 0o644)
}

// Keys lists all stored keys, sorted.
func (s *JSONDir) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *JSONDir) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}
