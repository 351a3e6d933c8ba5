package store

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/lawai/lawai-be/types"
)

// SnapshotRecord is one document plus its embedding as persisted on disk.
type SnapshotRecord struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
	Vector   []float32         `json:"vector"`
}

// Snapshot is the on-disk form of one domain: documents and vectors built
// together by the index command, so the two can never diverge.
type Snapshot struct {
	Dimension int              `json:"dimension"`
	Records   []SnapshotRecord `json:"records"`
}

// LoadSnapshot reads and validates a snapshot file. Validation failures
// reject the whole file: a domain loads completely or not at all.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	if err := snap.validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// WriteSnapshot persists a snapshot atomically: write to a temp file in the
// same directory, then rename over the target.
func WriteSnapshot(path string, snap *Snapshot) error {
	if err := snap.validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Snapshot) validate() error {
	if s.Dimension <= 0 {
		return fmt.Errorf("dimension must be positive, got %d", s.Dimension)
	}
	seen := make(map[string]struct{}, len(s.Records))
	for i, rec := range s.Records {
		if rec.ID == "" {
			return fmt.Errorf("record %d has no id", i)
		}
		if _, ok := seen[rec.ID]; ok {
			return fmt.Errorf("duplicate document id %q", rec.ID)
		}
		seen[rec.ID] = struct{}{}
		if len(rec.Vector) != s.Dimension {
			return fmt.Errorf("document %q: %w (want %d, got %d)",
				rec.ID, ErrDimensionMismatch, s.Dimension, len(rec.Vector))
		}
	}
	return nil
}

// Documents returns the snapshot's records as documents.
func (s *Snapshot) Documents() []types.Document {
	docs := make([]types.Document, 0, len(s.Records))
	for _, rec := range s.Records {
		docs = append(docs, types.Document{ID: rec.ID, Text: rec.Text, Metadata: rec.Metadata})
	}
	return docs
}

// Normalize scales a vector to unit length so that dot product equals cosine
// similarity. A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
