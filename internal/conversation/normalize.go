package conversation

import (
	"data-agent-chat/internal/agent"
	"data-agent-chat/internal/models"
)

const (
	DefaultSystemPrompt = "You are a helpful data agent. Answer the user's questions about their data " +
		"carefully and concisely, and explain any code you run."
	DefaultTemperature = 0.7
)

// Normalize returns a copy of c with every unset field filled from defaults.
//
// A field counts as unset when it is nil or holds its zero value, so a
// temperature of 0 becomes DefaultTemperature and an empty message list is
// replaced with a new empty one. The input is never modified; fields that
// are already set are carried over as-is.
func Normalize(c models.Conversation) models.Conversation {
	if c.Agent == nil || c.Agent.ID == "" {
		fallback := agent.Fallback()
		c.Agent = &fallback
	}

	if c.Prompt == nil || *c.Prompt == "" {
		prompt := DefaultSystemPrompt
		c.Prompt = &prompt
	}

	if c.Temperature == nil || *c.Temperature == 0 {
		temperature := DefaultTemperature
		c.Temperature = &temperature
	}

	if c.FolderID != nil && *c.FolderID == "" {
		c.FolderID = nil
	}

	if len(c.Messages) == 0 {
		c.Messages = []models.Message{}
	}

	return c
}

// NormalizeAll normalizes each conversation in order
func NormalizeAll(conversations []models.Conversation) []models.Conversation {
	out := make([]models.Conversation, len(conversations))
	for i, c := range conversations {
		out[i] = Normalize(c)
	}
	return out
}
