package service

import (
	"context"
	"strings"

	"github.com/lawai/lawai-be/types"
	"go.uber.org/zap"
)

// Reformulator rewrites a follow-up question into a standalone search query
// using prior turns as disambiguation context. It never fails a request: a
// model error falls back to the unmodified question.
type Reformulator struct {
	model  LanguageModel
	logger *zap.SugaredLogger
}

func NewReformulator(model LanguageModel, logger *zap.SugaredLogger) *Reformulator {
	return &Reformulator{model: model, logger: logger}
}

// Reformulate returns the standalone query for a question. With no history
// the question is already standalone and no model call is made.
func (r *Reformulator) Reformulate(ctx context.Context, question string, history []types.Message) string {
	if len(history) == 0 {
		return question
	}

	system, user := reformulationPrompts(question, history)
	response, err := r.model.Generate(ctx, system, user)
	if err != nil {
		r.logger.Warnw("question reformulation failed, using original question", "error", err)
		return question
	}
	reformulated := strings.TrimSpace(response)
	if reformulated == "" {
		return question
	}
	r.logger.Infow("reformulated question", "from", question, "to", reformulated)
	return reformulated
}
