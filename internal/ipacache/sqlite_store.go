package ipacache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS ipa_cache (
	word TEXT PRIMARY KEY,
	ipa  TEXT NOT NULL
)`

// SQLiteStore keeps the cache in a SQLite database. A save replaces all rows
// in one transaction.
type SQLiteStore struct {
	path string
}

// NewSQLiteStore creates a store for the database at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Path implements Store.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) open() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite3", s.path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache database %s: %w", s.path, err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return db, nil
}

// Load implements Store.
func (s *SQLiteStore) Load() (map[string]string, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT word, ipa FROM ipa_cache`)
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var word, ipa string
		if err := rows.Scan(&word, &ipa); err != nil {
			return nil, fmt.Errorf("scan cache row: %w", err)
		}
		entries[word] = ipa
	}
	return entries, rows.Err()
}

// Save implements Store.
func (s *SQLiteStore) Save(entries map[string]string) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM ipa_cache`); err != nil {
		return fmt.Errorf("clear cache table: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO ipa_cache (word, ipa) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for word, ipa := range entries {
		if _, err := stmt.Exec(word, ipa); err != nil {
			return fmt.Errorf("insert %q: %w", word, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache: %w", err)
	}
	return nil
}
