package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lawai/lawai-be/logger"
	"github.com/lawai/lawai-be/types"
)

func TestReformulateSkipsModelOnEmptyHistory(t *testing.T) {
	model := &fakeModel{generateText: "should never be used"}
	r := NewReformulator(model, logger.Nop())

	got := r.Reformulate(context.Background(), "What is Section 420?", nil)

	assert.Equal(t, "What is Section 420?", got)
	generate, _ := model.calls()
	assert.Zero(t, generate, "no model call for a question with no history")
}

func TestReformulateResolvesFollowUp(t *testing.T) {
	model := &fakeModel{generateText: "What is the punishment for murder under Section 302?"}
	r := NewReformulator(model, logger.Nop())

	history := []types.Message{
		{Role: types.RoleUser, Content: "What does Section 302 cover?"},
		{Role: types.RoleAssistant, Content: "Section 302 covers punishment for murder."},
	}
	got := r.Reformulate(context.Background(), "What is the punishment for it?", history)

	assert.Equal(t, "What is the punishment for murder under Section 302?", got)
	generate, _ := model.calls()
	assert.Equal(t, 1, generate)
	assert.Contains(t, model.lastUser, "Section 302 covers punishment for murder.")
	assert.Contains(t, model.lastUser, "What is the punishment for it?")
}

func TestReformulateFallsBackOnModelError(t *testing.T) {
	model := &fakeModel{generateFn: func(string, string) (string, error) {
		return "", errors.New("model unavailable")
	}}
	r := NewReformulator(model, logger.Nop())

	history := []types.Message{{Role: types.RoleUser, Content: "earlier turn"}}
	got := r.Reformulate(context.Background(), "What is the punishment for it?", history)

	assert.Equal(t, "What is the punishment for it?", got)
}

func TestReformulateFallsBackOnEmptyResponse(t *testing.T) {
	model := &fakeModel{generateText: "   \n"}
	r := NewReformulator(model, logger.Nop())

	history := []types.Message{{Role: types.RoleUser, Content: "earlier turn"}}
	got := r.Reformulate(context.Background(), "original question", history)

	assert.Equal(t, "original question", got)
}

func TestReformulationWindowKeepsRecentTurns(t *testing.T) {
	history := []types.Message{
		{Role: types.RoleUser, Content: "turn-1"},
		{Role: types.RoleAssistant, Content: "turn-2"},
		{Role: types.RoleUser, Content: "turn-3"},
		{Role: types.RoleAssistant, Content: "turn-4"},
		{Role: types.RoleUser, Content: "turn-5"},
		{Role: types.RoleAssistant, Content: "turn-6"},
		{Role: types.RoleUser, Content: "turn-7"},
	}
	_, user := reformulationPrompts("follow-up", history)

	assert.NotContains(t, user, "turn-1", "turns beyond the window are dropped")
	for _, want := range []string{"turn-2", "turn-7"} {
		assert.Contains(t, user, want)
	}
}
