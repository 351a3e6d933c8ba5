package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lawai/lawai-be/types"
	"go.uber.org/zap"
)

// WebSocketService streams query answers over a websocket connection using
// the same event sequence as the SSE endpoint. A closed connection cancels
// the in-flight pipeline run.
type WebSocketService struct {
	pipeline *Pipeline
	upgrader websocket.Upgrader
	logger   *zap.SugaredLogger
}

func NewWebSocketService(pipeline *Pipeline, logger *zap.SugaredLogger) *WebSocketService {
	return &WebSocketService{
		pipeline: pipeline,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS policy is enforced at the HTTP layer
			},
		},
	}
}

func (s *WebSocketService) HandleQuery(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warnw("websocket read error", "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			s.writeError(conn, "invalid message")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketPing:
			conn.WriteJSON(types.WebSocketResponse{Type: types.TypeWebsocketPong})

		case types.TypeWebsocketQuery:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				s.writeError(conn, "invalid query payload")
				continue
			}
			var query types.QueryRequest
			if err := json.Unmarshal(payloadBytes, &query); err != nil {
				s.writeError(conn, "invalid query payload")
				continue
			}
			s.streamQuery(ctx, conn, query)

		default:
			s.writeError(conn, "unknown message type")
		}
	}
}

func (s *WebSocketService) streamQuery(ctx context.Context, conn *websocket.Conn, query types.QueryRequest) {
	// The pipeline emits the terminal event itself; write errors only cancel
	// the generation, they do not add another terminal.
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.pipeline.QueryStream(streamCtx, query, func(event types.StreamEvent) {
		msg := types.WebSocketResponse{Type: types.TypeWebsocketStream, Payload: event}
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Warnw("websocket write failed, cancelling stream", "error", err)
			cancel()
		}
	})
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	conn.WriteJSON(types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: map[string]string{"error": message},
	})
}
