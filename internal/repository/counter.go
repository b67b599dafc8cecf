package repository

import "context"

// Counter issues strictly increasing record identifiers backed by persisted state.
type Counter interface {
	// Next returns the current counter value and advances the persisted counter by one.
	// A value is never returned twice.
	Next(ctx context.Context) (uint64, error)
}
