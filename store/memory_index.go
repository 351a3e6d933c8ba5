package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryIndex is a brute-force cosine similarity index over L2-normalized
// vectors. Reads are the common case; Add exists for incremental ingestion
// and takes the write lock.
type MemoryIndex struct {
	mu        sync.RWMutex
	dimension int
	ids       []string
	pos       map[string]int
	vectors   [][]float32
}

func NewMemoryIndex(dimension int) *MemoryIndex {
	return &MemoryIndex{
		dimension: dimension,
		pos:       make(map[string]int),
	}
}

// BuildMemoryIndex constructs an index from a validated snapshot. Vectors are
// normalized here so that search is a plain dot product.
func BuildMemoryIndex(snap *Snapshot) *MemoryIndex {
	idx := NewMemoryIndex(snap.Dimension)
	for _, rec := range snap.Records {
		idx.Add(rec.ID, rec.Vector)
	}
	return idx
}

// Add inserts or replaces the vector for a document id.
func (idx *MemoryIndex) Add(id string, vector []float32) error {
	if len(vector) != idx.dimension {
		return ErrDimensionMismatch
	}
	v := Normalize(vector)
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if i, ok := idx.pos[id]; ok {
		idx.vectors[i] = v
		return nil
	}
	idx.pos[id] = len(idx.ids)
	idx.ids = append(idx.ids, id)
	idx.vectors = append(idx.vectors, v)
	return nil
}

// Search returns up to k matches ordered by descending score, ties broken by
// ascending document id.
func (idx *MemoryIndex) Search(ctx context.Context, query []float32, k int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(query) != idx.dimension {
		return nil, ErrDimensionMismatch
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if len(idx.ids) == 0 {
		return nil, ErrNotLoaded
	}

	q := Normalize(query)
	matches := make([]Match, len(idx.ids))
	for i, v := range idx.vectors {
		matches[i] = Match{ID: idx.ids[i], Score: dot(v, q)}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})
	if k > 0 && k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

func (idx *MemoryIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.ids)
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
