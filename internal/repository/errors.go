// Package repository defines error types that are reused across the record
// store and its backends. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting message text. Store functions wrap them with context, so
// callers should compare with errors.Is.
package repository

import "errors"

// ErrValidation is returned when a required field is missing or empty
// after trimming. Handlers should translate this into an HTTP 400 response.
var ErrValidation = errors.New("validation failed")

// ErrConflict is returned when adding a room whose name already exists
// in the catalog (compared case-insensitively). Handlers should translate
// this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned when deleting a room that is not in the
// catalog. Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")
