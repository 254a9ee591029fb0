package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const createClientKVSQL = `
CREATE TABLE IF NOT EXISTS clientKV (
	key TEXT PRIMARY KEY,
	value TEXT
)`

// OpenDatabase opens (creating if needed) the SQLite state database at path.
// ":memory:" gives a private in-memory database.
func OpenDatabase(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single connection: an in-memory database exists per connection, and
	// record writes are whole-value replaces anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := db.Exec(createClientKVSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create clientKV table: %w", err)
	}

	return db, nil
}

// GetClientKV reads one value. found is false when the key is absent.
func GetClientKV(db *sql.DB, key string) (value string, found bool, err error) {
	var v sql.NullString
	err = db.QueryRow("SELECT value FROM clientKV WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query failed: %w", err)
	}
	if !v.Valid {
		return "", false, nil
	}
	return v.String, true, nil
}

// PutClientKV replaces the whole value stored under key.
func PutClientKV(db *sql.DB, key, value string) error {
	_, err := db.Exec("INSERT INTO clientKV (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", key, value)
	if err != nil {
		return fmt.Errorf("upsert failed: %w", err)
	}
	return nil
}

// DeleteClientKV removes key. Missing keys are not an error.
func DeleteClientKV(db *sql.DB, key string) error {
	if _, err := db.Exec("DELETE FROM clientKV WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

// QueryClientKV lists all pairs whose key matches a LIKE pattern.
func QueryClientKV(db *sql.DB, pattern string) ([]KeyValuePair, error) {
	rows, err := db.Query("SELECT key, value FROM clientKV WHERE key LIKE ? AND value IS NOT NULL ORDER BY key", pattern)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var pairs []KeyValuePair
	for rows.Next() {
		var pair KeyValuePair
		if err := rows.Scan(&pair.Key, &pair.Value); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		pairs = append(pairs, pair)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return pairs, nil
}

// KeyValuePair represents a row of clientKV
type KeyValuePair struct {
	Key   string
	Value string
}
