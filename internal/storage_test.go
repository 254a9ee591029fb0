package internal

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/iksnae/msgr/testutil"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	return NewStorage(testutil.CreateInMemoryDB(t))
}

func TestStorage_SetGetDelete(t *testing.T) {
	s := newTestStorage(t)

	if _, ok, err := s.Get(KeyUser); err != nil || ok {
		t.Fatalf("Get() on empty store = ok %v, err %v; want absent", ok, err)
	}

	if err := s.Set(KeyUser, `{"user_id":"u1"}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(KeyUser, `{"user_id":"u2"}`); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, ok, err := s.Get(KeyUser)
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if got != `{"user_id":"u2"}` {
		t.Errorf("Get() = %q, want the overwritten value", got)
	}

	if err := s.Delete(KeyUser); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(KeyUser); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
	if _, ok, _ := s.Get(KeyUser); ok {
		t.Error("Get() after Delete() still found the record")
	}
}

func TestStorage_Keys(t *testing.T) {
	s := newTestStorage(t)
	_ = s.Set(KeyToken, "u1")
	_ = s.Set(KeyChatsList, "[]")

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 2 || keys[0] != KeyChatsList || keys[1] != KeyToken {
		t.Errorf("Keys() = %v, want [chatsList token]", keys)
	}
}

func TestOpenStorage_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(testutil.CreateTempDir(t), "nested", "state.db")

	s, err := OpenStorage(path)
	if err != nil {
		t.Fatalf("OpenStorage() error = %v", err)
	}
	if err := s.Set(KeyToken, "u1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	s.Close()

	reopened, err := OpenStorage(path)
	if err != nil {
		t.Fatalf("OpenStorage() reopen error = %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Get(KeyToken)
	if err != nil || !ok || got != "u1" {
		t.Errorf("Get() after reopen = %q, %v, %v; want u1", got, ok, err)
	}
}

func TestStorage_ClosedDatabase(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	s := NewStorage(db)
	db.Close()

	err := s.Set(KeyUser, "x")
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Set() on closed db error = %v, want *StorageError", err)
	}
	if storageErr.Op != "set" || storageErr.Key != KeyUser {
		t.Errorf("StorageError = %+v", storageErr)
	}
}
