package service

import (
	"context"
	"strings"

	"github.com/lawai/lawai-be/types"
	"go.uber.org/zap"
)

// Pipeline stages. Each stage's output is the next stage's sole input; the
// only permitted skip is the reformulator fast path on an empty history.
const (
	StageReformulating = "REFORMULATING"
	StageRetrieving    = "RETRIEVING"
	StageGenerating    = "GENERATING"
	StageDone          = "DONE"
	StageFailed        = "FAILED"
)

// Pipeline composes reformulation, retrieval, and generation into one
// request cycle. Reformulation failures fall back to the raw question and
// never fail the request; retrieval and generation failures do.
type Pipeline struct {
	reformulator   *Reformulator
	retriever      *Retriever
	generator      *Generator
	defaultDomains []string
	logger         *zap.SugaredLogger
}

func NewPipeline(reformulator *Reformulator, retriever *Retriever, generator *Generator, defaultDomains []string, logger *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		reformulator:   reformulator,
		retriever:      retriever,
		generator:      generator,
		defaultDomains: defaultDomains,
		logger:         logger,
	}
}

// pipelineState carries each stage's output to the next one.
type pipelineState struct {
	stage      string
	question   string
	domains    []string
	standalone string
	docs       []types.ScoredDocument
}

func (p *Pipeline) newState(req types.QueryRequest) (*pipelineState, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	domains := req.DomainNames()
	if len(domains) == 0 {
		domains = p.defaultDomains
	}
	return &pipelineState{
		stage:    StageReformulating,
		question: question,
		domains:  domains,
	}, nil
}

// reformulateAndRetrieve runs the first two stages, shared by both modes.
func (p *Pipeline) reformulateAndRetrieve(ctx context.Context, state *pipelineState, req types.QueryRequest) error {
	state.standalone = p.reformulator.Reformulate(ctx, state.question, req.ChatHistory)

	state.stage = StageRetrieving
	docs, err := p.retriever.Retrieve(ctx, state.standalone, state.domains, req.TopK)
	if err != nil {
		state.stage = StageFailed
		p.logger.Errorw("retrieval failed", "domains", state.domains, "error", err)
		return err
	}
	state.docs = docs
	state.stage = StageGenerating
	return nil
}

// Query runs the full cycle and returns the complete answer.
func (p *Pipeline) Query(ctx context.Context, req types.QueryRequest) (*types.QueryResponse, error) {
	state, err := p.newState(req)
	if err != nil {
		return nil, err
	}
	if err := p.reformulateAndRetrieve(ctx, state, req); err != nil {
		return nil, err
	}

	result, err := p.generator.Generate(ctx, state.standalone, state.docs, req.ChatHistory)
	if err != nil {
		state.stage = StageFailed
		p.logger.Errorw("generation failed", "error", err)
		return nil, err
	}
	state.stage = StageDone

	return &types.QueryResponse{
		Question: state.question,
		Answer:   result.Answer,
		Sources:  result.Sources,
		Success:  true,
	}, nil
}

// QueryStream runs the cycle in streaming mode. Events are emitted in order:
// one sources event first, then content chunks, then exactly one terminal
// event (done or error). Chunks produced before a mid-stream failure are
// emitted before the error event; they are never retracted.
func (p *Pipeline) QueryStream(ctx context.Context, req types.QueryRequest, emit func(types.StreamEvent)) (string, error) {
	state, err := p.newState(req)
	if err != nil {
		emit(types.StreamEvent{Type: types.StreamEventError, Error: err.Error()})
		return "", err
	}
	if err := p.reformulateAndRetrieve(ctx, state, req); err != nil {
		emit(types.StreamEvent{Type: types.StreamEventError, Error: err.Error()})
		return "", err
	}

	emit(types.StreamEvent{
		Type:    types.StreamEventSources,
		Sources: types.SourcesFromDocuments(state.docs),
	})

	answer, err := p.generator.GenerateStream(ctx, state.standalone, state.docs, req.ChatHistory, func(chunk string) {
		emit(types.StreamEvent{Type: types.StreamEventContent, Content: chunk})
	})
	if err != nil {
		state.stage = StageFailed
		p.logger.Errorw("streaming generation failed", "error", err)
		emit(types.StreamEvent{Type: types.StreamEventError, Error: err.Error()})
		return answer, err
	}
	state.stage = StageDone

	emit(types.StreamEvent{
		Type:     types.StreamEventDone,
		Question: state.question,
		Answer:   answer,
	})
	return answer, nil
}
