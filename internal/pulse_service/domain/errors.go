package domain

import "errors"

var (
	// ErrNotFound indicates that a requested resource was not found
	// (e.g. a contact disappeared between list and detail fetch).
	ErrNotFound = errors.New("resource not found")
	// ErrValidation indicates a request was rejected before dispatch
	// (missing required field, malformed identifier).
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates the backend rejected a state transition;
	// the backend's message is surfaced verbatim alongside this sentinel.
	ErrConflict = errors.New("conflicting state transition")
	// ErrUnavailable indicates a transient network/backend failure;
	// projections retain their last-known-good state.
	ErrUnavailable = errors.New("backend unavailable")
)
