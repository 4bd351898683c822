package logic

import (
	"unicode/utf8"

	"data-agent-chat/internal/agent"
	"data-agent-chat/internal/conversation"
	"data-agent-chat/internal/endpoint"
	"data-agent-chat/internal/models"
)

// ChatRequest is what a client sends to the chat endpoint for a conversation.
// Building it does not send anything.
type ChatRequest struct {
	Endpoint    string           `json:"endpoint"`
	AgentID     agent.ID         `json:"agentId"`
	Prompt      string           `json:"prompt"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"maxTokens"`
	Messages    []models.Message `json:"messages"`
	// Dropped counts the oldest messages left out to fit the agent's MaxLength
	Dropped int `json:"dropped"`
}

// BuildChatRequest normalizes conv and prepares the request its agent would
// receive. The agent is re-resolved from the catalog; an agent that is no
// longer listed falls back to the catalog default.
func BuildChatRequest(conv models.Conversation, resolver *endpoint.Resolver) ChatRequest {
	if resolver == nil {
		resolver = endpoint.Default
	}

	conv = conversation.Normalize(conv)

	a, ok := agent.Lookup(conv.Agent.ID)
	if !ok {
		a = agent.Fallback()
	}

	messages := FitHistory(conv.Messages, *conv.Prompt, a.MaxLength)

	return ChatRequest{
		Endpoint:    resolver.Chat(a),
		AgentID:     a.ID,
		Prompt:      *conv.Prompt,
		Temperature: *conv.Temperature,
		MaxTokens:   a.TokenLimit,
		Messages:    messages,
		Dropped:     len(conv.Messages) - len(messages),
	}
}

// FitHistory returns the longest suffix of messages whose content, together
// with prompt, fits in maxLength characters. The newest message is always
// kept, even when it alone exceeds the budget. A non-positive maxLength
// disables trimming.
func FitHistory(messages []models.Message, prompt string, maxLength int) []models.Message {
	if len(messages) == 0 {
		return []models.Message{}
	}
	if maxLength <= 0 {
		return messages
	}

	used := utf8.RuneCountInString(prompt)
	start := len(messages)
	for i := len(messages) - 1; i >= 0; i-- {
		used += utf8.RuneCountInString(messages[i].Content)
		if used > maxLength && i < len(messages)-1 {
			break
		}
		start = i
	}

	return messages[start:]
}
