package types

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single turn in the conversation. The engine treats an
// incoming history as a read-only snapshot; it is owned by the session layer.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat represents a stored conversation.
type Chat struct {
	ID        string `bson:"_id" json:"id"`
	Title     string `bson:"title" json:"title"`
	CreatedAt int64  `bson:"created_at" json:"created_at"`
	UpdatedAt int64  `bson:"updated_at" json:"updated_at"`
}

// ChatMessage is one persisted turn of a stored conversation.
type ChatMessage struct {
	ID        string `bson:"_id" json:"id"`
	ChatID    string `bson:"chat_id" json:"chat_id"`
	Role      string `bson:"role" json:"role"`
	Content   string `bson:"content" json:"content"`
	CreatedAt int64  `bson:"created_at" json:"created_at"`
}
