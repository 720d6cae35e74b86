// Package store persists conversation transcripts so finished sessions can
// be reviewed later.
package store

import (
	"context"
	"time"
)

// Conversation is one recorded chat session.
type Conversation struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one turn of a conversation. Role is "user" or "assistant".
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationFilter specifies criteria for listing conversations.
type ConversationFilter struct {
	State  string `json:"state,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the transcript persistence interface.
type Store interface {
	CreateConversation(ctx context.Context, id string) (*Conversation, error)
	UpdateConversationState(ctx context.Context, id, state string) error
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	ListConversations(ctx context.Context, filter ConversationFilter) ([]Conversation, error)

	AppendMessage(ctx context.Context, conversationID, role, content string) (*Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
