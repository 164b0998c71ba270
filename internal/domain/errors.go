package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrRateLimited indicates the catalogue API retry budget was exhausted
	ErrRateLimited = errors.New("catalogue rate limit exceeded")

	// ErrAnimeNotFound indicates the requested title does not exist upstream
	ErrAnimeNotFound = errors.New("anime not found")

	// ErrInvalidProgress indicates a progress save with a non-positive duration
	ErrInvalidProgress = errors.New("invalid progress: duration must be positive")

	// ErrAlreadyInWatchlist indicates a duplicate watchlist insert.
	// Expected failure mode, returned as a value rather than logged.
	ErrAlreadyInWatchlist = errors.New("anime already in watchlist")

	// ErrNotInWatchlist indicates the entry to update or remove is missing
	ErrNotInWatchlist = errors.New("anime not in watchlist")
)

// APIError is a non-429 failure status from the catalogue API.
// Surfaced immediately, never retried.
type APIError struct {
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalogue API error: status %d", e.Status)
}
