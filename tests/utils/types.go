package utils

// Agent mirrors the catalog entry returned by /api/agents
type Agent struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	MaxLength  int    `json:"maxLength"`
	TokenLimit int    `json:"tokenLimit"`
	LLM        *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"llm"`
}

// Message mirrors a stored conversation message
type Message struct {
	ID             int64  `json:"id"`
	ConversationID string `json:"conversationId"`
	Role           string `json:"role"`
	Content        string `json:"content"`
}

// Conversation mirrors a normalized conversation
type Conversation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Agent       *Agent    `json:"agent"`
	Prompt      *string   `json:"prompt"`
	Temperature *float64  `json:"temperature"`
	FolderID    *string   `json:"folderId"`
	Messages    []Message `json:"messages"`
}

// Folder mirrors a conversation folder
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
