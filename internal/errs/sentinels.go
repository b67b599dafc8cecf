// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested health record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a request payload violated a field constraint.
	// The wrapping error carries the offending constraint description.
	ErrValidation = errors.New("validation")

	// ErrInsertionFailed indicates the storage layer rejected or could not complete a write
	// (size bound exceeded, storage fault).
	ErrInsertionFailed = errors.New("insertion failed")
)
