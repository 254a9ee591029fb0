package internal

import (
	"database/sql"
)

// Durable record keys.
const (
	KeyUser      = "user"
	KeyToken     = "token"
	KeyChatsList = "chatsList"
)

// KeyValueStore is the durable client-side record store. Every write
// replaces a whole record.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Storage is the SQLite-backed KeyValueStore
type Storage struct {
	db *sql.DB
}

// NewStorage creates a new Storage instance
func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// OpenStorage opens the state database at path and wraps it.
func OpenStorage(path string) (*Storage, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StorageError{Key: path, Op: "open", Err: err}
	}
	return NewStorage(db), nil
}

// Get returns the record stored under key.
func (s *Storage) Get(key string) (string, bool, error) {
	v, ok, err := GetClientKV(s.db, key)
	if err != nil {
		return "", false, &StorageError{Key: key, Op: "get", Err: err}
	}
	return v, ok, nil
}

// Set replaces the record stored under key.
func (s *Storage) Set(key, value string) error {
	if err := PutClientKV(s.db, key, value); err != nil {
		return &StorageError{Key: key, Op: "set", Err: err}
	}
	LogDebug("stored %s (%d bytes)", key, len(value))
	return nil
}

// Delete removes the record stored under key.
func (s *Storage) Delete(key string) error {
	if err := DeleteClientKV(s.db, key); err != nil {
		return &StorageError{Key: key, Op: "delete", Err: err}
	}
	return nil
}

// Keys lists every stored record key.
func (s *Storage) Keys() ([]string, error) {
	pairs, err := QueryClientKV(s.db, "%")
	if err != nil {
		return nil, &StorageError{Key: "*", Op: "get", Err: err}
	}
	keys := make([]string, 0, len(pairs))
	for _, p := range pairs {
		keys = append(keys, p.Key)
	}
	return keys, nil
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	return s.db.Close()
}
