package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lawai/lawai-be/types"
	"go.uber.org/zap"
)

// Generator drives the language model with a constrained prompt: the
// retrieved context is the only permitted factual basis for an answer. An
// empty context short-circuits to the configured fallback answer without a
// model call, so "not found in corpus" behavior is deterministic.
type Generator struct {
	model          LanguageModel
	fallbackAnswer string
	timeout        time.Duration
	logger         *zap.SugaredLogger
}

func NewGenerator(model LanguageModel, fallbackAnswer string, timeout time.Duration, logger *zap.SugaredLogger) *Generator {
	return &Generator{
		model:          model,
		fallbackAnswer: fallbackAnswer,
		timeout:        timeout,
		logger:         logger,
	}
}

// Generate produces the complete answer in one call.
func (g *Generator) Generate(ctx context.Context, question string, docs []types.ScoredDocument, history []types.Message) (*types.GenerationResult, error) {
	sources := types.SourcesFromDocuments(docs)
	if len(docs) == 0 {
		return &types.GenerationResult{
			Answer:  g.fallbackAnswer,
			Sources: sources,
			Success: true,
		}, nil
	}

	genCtx, cancel := g.withTimeout(ctx)
	defer cancel()

	system, user := answerPrompts(question, docs, history)
	answer, err := g.model.Generate(genCtx, system, user)
	if err != nil {
		return nil, g.mapErr(ctx, err)
	}
	return &types.GenerationResult{
		Answer:  strings.TrimSpace(answer),
		Sources: sources,
		Success: true,
	}, nil
}

// GenerateStream delivers the answer incrementally through the handler and
// returns the accumulated text. On failure the chunks already handed out
// stand; the caller surfaces the error after them.
func (g *Generator) GenerateStream(ctx context.Context, question string, docs []types.ScoredDocument, history []types.Message, handler types.StreamHandler) (string, error) {
	if len(docs) == 0 {
		handler(g.fallbackAnswer)
		return g.fallbackAnswer, nil
	}

	genCtx, cancel := g.withTimeout(ctx)
	defer cancel()

	var answer strings.Builder
	system, user := answerPrompts(question, docs, history)
	err := g.model.GenerateStream(genCtx, system, user, func(chunk string) {
		answer.WriteString(chunk)
		handler(chunk)
	})
	if err != nil {
		return answer.String(), g.mapErr(ctx, err)
	}
	return answer.String(), nil
}

func (g *Generator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout > 0 {
		return context.WithTimeout(ctx, g.timeout)
	}
	return context.WithCancel(ctx)
}

// mapErr distinguishes our generation timeout from a caller cancellation.
func (g *Generator) mapErr(parent context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return fmt.Errorf("%w after %s", ErrGenerationTimeout, g.timeout)
	}
	return err
}
