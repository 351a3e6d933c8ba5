package service

import (
	"context"

	"github.com/lawai/lawai-be/types"
)

// LanguageModel is the sole external call used by the reformulator and the
// generator. GenerateStream delivers increments in generation order through
// the handler and returns once the stream is exhausted, cancelled, or fails.
type LanguageModel interface {
	Generate(ctx context.Context, system, user string) (string, error)
	GenerateStream(ctx context.Context, system, user string, handler types.StreamHandler) error
}

// EmbeddingProvider turns text into vectors. It is exercised at index-build
// time and once per request to embed the standalone query; the two must use
// the same model so dimensions stay consistent.
type EmbeddingProvider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
