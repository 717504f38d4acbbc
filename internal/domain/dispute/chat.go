package dispute

import "time"

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// MessageState tracks an optimistic user message until its turn completes.
type MessageState string

const (
	MessagePending   MessageState = "pending"
	MessageConfirmed MessageState = "confirmed"
	MessageFailed    MessageState = "failed"
)

type ChatMessage struct {
	ID        int
	Sender    Sender
	Content   string
	Timestamp time.Time
	State     MessageState
}

// ChatRecord is one persisted turn as returned by the chat history endpoint.
type ChatRecord struct {
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Timestamp   Timestamp `json:"timestamp"`
}
