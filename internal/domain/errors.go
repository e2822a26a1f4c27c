package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrBadRequest    = errors.New("bad request")
	ErrValidation    = errors.New("validation failed")
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrUnavailable marks a failed call to a backing store. Callers decide whether to retry.
	ErrUnavailable = errors.New("store unavailable")
)
