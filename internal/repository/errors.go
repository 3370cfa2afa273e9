// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to act on a resource owned by someone else, while
// ErrConflict signals a storage-level uniqueness violation: when two
// requests race to register the same email, the unique index lets one
// insert succeed and surfaces the other as a conflict here.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert or update violates a unique
// constraint. Handlers should translate this into a conflict-style
// response for the caller.
var ErrConflict = errors.New("conflict")

// isDup reports whether err is a MySQL duplicate-key error (1062).
func isDup(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
