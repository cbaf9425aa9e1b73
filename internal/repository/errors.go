// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow higher layers
// such as handlers to distinguish between different failure scenarios.
// For example, ErrForbidden indicates that the current user is not
// authorized to act on a resource owned by someone else, while
// ErrConflict signals that an operation cannot proceed because of
// conflicting state (e.g. accepting a bid on a slot that already
// carries an active deal).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state, such as a guarded status transition whose
// precondition no longer holds.  Handlers should translate this into
// an HTTP 409 response.
var ErrConflict = errors.New("conflict")
