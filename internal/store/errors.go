// Package store implements persistence over SQLite. Sentinel errors defined
// here let handlers distinguish failure cases and translate them to
// user-facing responses.
package store

import "errors"

// ErrInvalidInput is returned for malformed input such as a non-positive
// purchase amount. Handlers should translate this into HTTP 400.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound is returned when a referenced technician does not exist.
// Handlers should translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrGiftUnavailable is returned when a redemption targets a gift that is
// missing or deactivated. Handlers should translate this into HTTP 409.
var ErrGiftUnavailable = errors.New("gift unavailable")

// ErrInsufficientBalance is returned when a technician's balance no longer
// covers the gift price at commit time. The balance is left untouched.
// Handlers should translate this into HTTP 409.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrConflict is returned on unique-constraint violations, such as creating
// a technician with a phone number already in use. Handlers should
// translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
