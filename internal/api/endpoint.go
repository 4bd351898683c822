package api

import (
	"encoding/json"
	"net/http"

	"data-agent-chat/internal/agent"
	"data-agent-chat/internal/endpoint"
)

// EndpointHandler tells clients where to send chat and recommendation requests
type EndpointHandler struct {
	resolver *endpoint.Resolver
}

// NewEndpointHandler creates a new endpoint handler. A nil resolver uses endpoint.Default.
func NewEndpointHandler(resolver *endpoint.Resolver) *EndpointHandler {
	if resolver == nil {
		resolver = endpoint.Default
	}
	return &EndpointHandler{resolver: resolver}
}

// EndpointsResponse lists the endpoints for one agent
type EndpointsResponse struct {
	AgentID   agent.ID `json:"agentId"`
	Chat      string   `json:"chat"`
	Recommend string   `json:"recommend"`
}

// Get handles GET /api/endpoints?agent_id=
// An empty or unknown agent_id resolves as the fallback agent.
func (h *EndpointHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := agent.Lookup(agent.ID(r.URL.Query().Get("agent_id")))
	if !ok {
		a = agent.Fallback()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(EndpointsResponse{
		AgentID:   a.ID,
		Chat:      h.resolver.Chat(a),
		Recommend: h.resolver.Recommendation(),
	})
}
