package store

import "errors"

var (
	// ErrUnknownDomain is returned when a request names a domain with no
	// registered index.
	ErrUnknownDomain = errors.New("unknown domain")

	// ErrNotLoaded is returned when an index is searched before a successful
	// load. An empty index never silently returns zero results.
	ErrNotLoaded = errors.New("vector index not loaded")

	// ErrDimensionMismatch is returned when a vector does not match the
	// index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
