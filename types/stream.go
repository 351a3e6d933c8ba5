package types

// Stream event types. Sources are always delivered as the first event,
// before any content chunk; "done" and "error" are terminal and a stream
// carries exactly one of them.
const (
	StreamEventSources = "sources"
	StreamEventContent = "content"
	StreamEventDone    = "done"
	StreamEventError   = "error"
)

// StreamDoneSentinel closes an SSE stream after the terminal "done" event.
// It is distinct from every JSON event on the wire.
const StreamDoneSentinel = "[DONE]"

// StreamEvent is one server-pushed event of a streaming answer.
type StreamEvent struct {
	Type     string   `json:"type"`
	Content  string   `json:"content,omitempty"`
	Sources  []Source `json:"sources,omitempty"`
	Question string   `json:"question,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// StreamHandler receives one increment of generated text.
type StreamHandler func(chunk string)

// Websocket message types.
const (
	TypeWebsocketPing   = "ping"
	TypeWebsocketPong   = "pong"
	TypeWebsocketQuery  = "query"
	TypeWebsocketStream = "stream"
	TypeWebsocketError  = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
