package api

import (
	"encoding/json"
	"net/http"

	"data-agent-chat/internal/agent"
)

// AgentHandler serves the static agent catalog
type AgentHandler struct{}

// NewAgentHandler creates a new agent handler
func NewAgentHandler() *AgentHandler {
	return &AgentHandler{}
}

// List handles GET /api/agents
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(agent.List())
}

// Get handles GET /api/agents/{id}
func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := agent.Lookup(agent.ID(r.PathValue("id")))
	if !ok {
		http.Error(w, "Agent not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a)
}
