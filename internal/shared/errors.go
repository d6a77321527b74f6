// Package shared defines the error kinds that cross package boundaries.
package shared

import "errors"

var (
	// ErrAuth covers missing credential configuration and token fetch
	// failures. Callers must not proceed with dependent upstream calls.
	ErrAuth = errors.New("auth error")

	// ErrNotFound is a geocoding miss: the provider returned no match.
	ErrNotFound = errors.New("not found")

	// ErrMissingCode means a station has no real-time location code, so
	// amenity detail is fundamentally unavailable for it.
	ErrMissingCode = errors.New("missing location code")

	// ErrUpstream is a non-success status or malformed payload from the
	// amenity search/detail APIs.
	ErrUpstream = errors.New("upstream error")

	// ErrNetwork is a transport or timeout failure.
	ErrNetwork = errors.New("network error")

	// ErrNoPriorSearch means a follow-up arrived before any station search
	// for that user.
	ErrNoPriorSearch = errors.New("no prior search")
)
