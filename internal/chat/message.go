// internal/chat/message.go
package chat

import "github.com/google/uuid"

// MessageKind classifies a transcript entry.
type MessageKind string

const (
	KindUser      MessageKind = "user"
	KindAssistant MessageKind = "assistant"
	KindSystem    MessageKind = "system"
	KindError     MessageKind = "error"
)

type MessageID string

// NewMessageID returns a random unique message id. Random ids (rather than
// clock-derived ones) keep ids unique even when two messages are appended
// within the same tick.
func NewMessageID() MessageID {
	return MessageID(uuid.New().String())
}

// Message is one entry in a session transcript. Transcript order is
// insertion order and carries the conversation's meaning.
type Message struct {
	ID   MessageID
	Kind MessageKind
	Text string
}
