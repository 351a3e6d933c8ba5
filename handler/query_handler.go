package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lawai/lawai-be/repository"
	"github.com/lawai/lawai-be/service"
	"github.com/lawai/lawai-be/store"
	"github.com/lawai/lawai-be/types"
	"go.uber.org/zap"
)

// QueryHandler exposes the pipeline over HTTP: a synchronous JSON endpoint
// and an SSE streaming endpoint. Sources are pushed as the first stream
// event, before any content chunk; the stream closes with the [DONE]
// sentinel after the terminal done event.
type QueryHandler struct {
	pipeline *service.Pipeline
	chats    repository.ChatRepo // optional, nil disables transcript persistence
	logger   *zap.SugaredLogger
}

func NewQueryHandler(pipeline *service.Pipeline, chats repository.ChatRepo, logger *zap.SugaredLogger) *QueryHandler {
	return &QueryHandler{
		pipeline: pipeline,
		chats:    chats,
		logger:   logger,
	}
}

func (h *QueryHandler) HandleQuery(c *gin.Context) {
	var req types.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.QueryResponse{
			Success:     false,
			ErrorReason: "invalid request body",
		})
		return
	}

	response, err := h.pipeline.Query(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), types.QueryResponse{
			Question:    req.Question,
			Success:     false,
			ErrorReason: err.Error(),
		})
		return
	}

	h.persistTurn(c, req, response.Answer)
	c.JSON(http.StatusOK, response)
}

func (h *QueryHandler) HandleQueryStream(c *gin.Context) {
	var req types.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.QueryResponse{
			Success:     false,
			ErrorReason: "invalid request body",
		})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	emit := func(event types.StreamEvent) {
		data, err := json.Marshal(event)
		if err != nil {
			h.logger.Errorw("failed to marshal stream event", "error", err)
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		c.Writer.Flush()
	}

	answer, err := h.pipeline.QueryStream(c.Request.Context(), req, emit)
	if err != nil {
		// The terminal error event has already been emitted; the stream
		// ends here without the done sentinel.
		return
	}

	fmt.Fprintf(c.Writer, "data: %s\n\n", types.StreamDoneSentinel)
	c.Writer.Flush()

	h.persistTurn(c, req, answer)
}

// persistTurn appends the question and answer to the stored transcript when
// the caller supplied a chat id.
func (h *QueryHandler) persistTurn(c *gin.Context, req types.QueryRequest, answer string) {
	if h.chats == nil || req.ChatID == "" {
		return
	}
	now := time.Now().Unix()
	turns := []*types.ChatMessage{
		{ID: uuid.NewString(), ChatID: req.ChatID, Role: types.RoleUser, Content: req.Question, CreatedAt: now},
		{ID: uuid.NewString(), ChatID: req.ChatID, Role: types.RoleAssistant, Content: answer, CreatedAt: now},
	}
	for _, turn := range turns {
		if err := h.chats.AppendMessage(c.Request.Context(), turn); err != nil {
			h.logger.Warnw("failed to persist chat turn", "chat_id", req.ChatID, "error", err)
			return
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyQuestion), errors.Is(err, store.ErrUnknownDomain):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
