package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory SQLite database with the clientKV
// table. The pool is pinned to one connection so every query sees the same
// database.
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS clientKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create clientKV table: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// InsertRecord writes a raw record, bypassing the client code
func InsertRecord(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	insertSQL := "INSERT OR REPLACE INTO clientKV (key, value) VALUES (?, ?)"
	if _, err := db.Exec(insertSQL, key, value); err != nil {
		t.Fatalf("Failed to insert record %s: %v", key, err)
	}
}

// ReadRecord returns a raw record and whether it exists
func ReadRecord(t *testing.T, db *sql.DB, key string) (string, bool) {
	t.Helper()
	var value sql.NullString
	err := db.QueryRow("SELECT value FROM clientKV WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		t.Fatalf("Failed to read record %s: %v", key, err)
	}
	return value.String, value.Valid
}
