package service

import "errors"

var (
	// ErrEmptyQuestion rejects a request with no question text.
	ErrEmptyQuestion = errors.New("question must not be empty")

	// ErrRetrievalTimeout is surfaced only when every requested domain
	// timed out; a single slow domain just contributes zero results.
	ErrRetrievalTimeout = errors.New("retrieval timed out for all domains")

	// ErrGenerationTimeout is surfaced when the model call exceeds the
	// configured generation timeout. Chunks already streamed stay delivered.
	ErrGenerationTimeout = errors.New("generation timed out")
)
