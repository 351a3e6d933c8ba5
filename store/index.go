package store

import "context"

// Match is one search hit: a document id and its similarity score.
type Match struct {
	ID    string
	Score float32
}

// VectorIndex is the nearest-neighbour search contract. Scores are monotonic
// (higher = more similar) and a search against one loaded index is
// deterministic: same query, same results, ties broken by ascending document
// id. Searching an empty or unloaded index fails with ErrNotLoaded.
type VectorIndex interface {
	Search(ctx context.Context, query []float32, k int) ([]Match, error)
	Add(id string, vector []float32) error
	Len() int
}
