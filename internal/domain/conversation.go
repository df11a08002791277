package domain

import "time"

// Sender identifies who authored a conversation message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderAI     Sender = "ai"
	SenderSystem Sender = "system"
)

// Valid reports whether s is a known message sender.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAI || s == SenderSystem
}

// Message is a single turn in a conversation.
type Message struct {
	At     time.Time `json:"at,omitzero,omitempty"`
	ID     string    `json:"id,omitempty"`
	Text   string    `json:"text"`
	Sender Sender    `json:"sender"`
}

// Conversation is an ordered message transcript. Version tags the seeding
// schema: when the greeting pool or opener format changes, bumping the
// version causes stale seeded conversations to be reseeded on next load.
type Conversation struct {
	Version  int       `json:"version"`
	Messages []Message `json:"messages"`
}

// Append adds a message to the end of the transcript.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
}

// Empty reports whether the conversation has no messages.
func (c *Conversation) Empty() bool {
	return len(c.Messages) == 0
}
