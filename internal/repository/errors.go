// Package repository contains the data access layer. Sentinel errors let
// handlers map failures onto HTTP statuses without inspecting driver
// internals.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when no record matches the given identifier.
// Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a write violates a uniqueness or integrity
// constraint; the statement is rolled back entirely and handlers translate
// the error into HTTP 409.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a duplicate-key violation. MySQL
// signals these with error 1062; the pure-Go sqlite driver used in tests
// reports a UNIQUE constraint failure.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}

// isReferenced reports whether err is a foreign-key violation, i.e. the row
// is still referenced by dependent records.
func isReferenced(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1451") || strings.Contains(msg, "1452") ||
		strings.Contains(msg, "foreign key")
}
