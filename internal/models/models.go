package models

import (
	"time"

	"data-agent-chat/internal/agent"
)

// Role defines who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message represents a single message in a conversation
type Message struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversationId"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Conversation represents one chat session.
// Agent, Prompt, Temperature, FolderID and Messages may be unset when the
// record comes from storage; conversation.Normalize fills them in.
type Conversation struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Agent       *agent.Agent `json:"agent"`
	Prompt      *string      `json:"prompt"`
	Temperature *float64     `json:"temperature"`
	// FolderID nil means the conversation is in no folder
	FolderID  *string   `json:"folderId"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Folder groups conversations in the sidebar
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
