// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values let handlers distinguish failure
// scenarios without string matching.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers should translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state, such as confirming an already-confirmed payment.
// Handlers should translate this into 409.
var ErrConflict = errors.New("conflict")
