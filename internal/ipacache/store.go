package ipacache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"codeberg.org/snonux/hyphipa/internal"
)

// Backend names as used in configuration.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// FileName returns the cache file name for a language id, e.g. "zlw-cs.json".
func FileName(lang, backend string) string {
	ext := ".json"
	if backend == BackendSQLite {
		ext = ".db"
	}
	return internal.SanitizeFilename(lang) + ext
}

// NewStore returns the store for lang inside dir.
func NewStore(backend, dir, lang string) (Store, error) {
	path := filepath.Join(dir, FileName(lang, backend))
	switch strings.ToLower(backend) {
	case BackendJSON, "":
		return NewJSONStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", backend)
	}
}

// JSONStore keeps the cache as one flat JSON object. Every save rewrites
// the whole file through a temporary file and a rename, while holding an
// advisory lock on a sibling ".lock" file.
type JSONStore struct {
	path string
}

// NewJSONStore creates a store for path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path implements Store.
func (s *JSONStore) Path() string {
	return s.path
}

// Load implements Store. A missing or empty file is an empty cache.
func (s *JSONStore) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read cache file %s: %w", s.path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]string{}, nil
	}

	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return entries, nil
}

// Save implements Store.
func (s *JSONStore) Save(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock cache file: %w", err)
	}
	defer lock.Unlock() //nolint:errcheck

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

// LoadDir merges the JSON and SQLite caches of every language found in dir
// and returns the inverted map, transcription to word. Files are read in name
// order, so later languages win on collisions.
func LoadDir(dir string) (map[string]string, error) {
	var paths []string
	for _, pattern := range []string{"*.json", "*.db"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("list cache directory: %w", err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	inverted := make(map[string]string)
	for _, path := range paths {
		var store Store = NewJSONStore(path)
		if filepath.Ext(path) == ".db" {
			store = NewSQLiteStore(path)
		}
		entries, err := store.Load()
		if err != nil {
			return nil, err
		}
		for ipa, word := range invert(entries) {
			inverted[ipa] = word
		}
	}
	return inverted, nil
}
