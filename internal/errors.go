package internal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrSuperseded is returned when a conversation fetch resolves after a newer
// selection replaced it. The result has been discarded.
var ErrSuperseded = errors.New("conversation selection superseded")

// ErrNoSession is returned by operations that need an authenticated session.
var ErrNoSession = errors.New("not logged in")

// StorageError represents errors accessing the local state database
type StorageError struct {
	Key string
	Op  string // "open", "get", "set", "delete"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents a stored record that could not be decoded
type ParseError struct {
	Key string // storage key
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s]: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError holds every failing form field with its message. It is
// produced before any network call is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for a field, or "" when it passed.
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// AuthError is a backend rejection of login, register or rename.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// FetchError is any other backend or network failure. Callers log it and
// keep showing what they had.
type FetchError struct {
	Op     string
	Status int // 0 when the request never got a response
	Detail string
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0 && e.Detail != "":
		return fmt.Sprintf("%s failed (status %d): %s", e.Op, e.Status, e.Detail)
	case e.Status != 0:
		return fmt.Sprintf("%s failed (status %d)", e.Op, e.Status)
	default:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
