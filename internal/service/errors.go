package service

import "errors"

// Sentinel errors shared across services. Handlers translate these into HTTP
// statuses with errors.Is; anything else is an internal error.
var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("document not found")
	ErrForbidden  = errors.New("access denied")
	ErrReaderNil  = errors.New("reader is nil")
	// ErrAuthFailed marks a callback notification whose signature is missing
	// or invalid. Nothing is mutated for such notifications.
	ErrAuthFailed = errors.New("callback authentication failed")
	// ErrInvalidInput marks a malformed or incomplete request.
	ErrInvalidInput = errors.New("invalid request")
	// ErrSaveFailed marks a failure anywhere in the save pipeline: missing
	// source URL, download failure, or persistence failure.
	ErrSaveFailed = errors.New("document save failed")
)
