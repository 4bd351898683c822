package api

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"data-agent-chat/internal/db"
	"data-agent-chat/internal/endpoint"
	"data-agent-chat/internal/logic"
)

// ChatRequestHandler previews the request a conversation would send to its agent
type ChatRequestHandler struct {
	db       *db.DB
	resolver *endpoint.Resolver
}

// NewChatRequestHandler creates a new chat request handler. A nil resolver uses endpoint.Default.
func NewChatRequestHandler(database *db.DB, resolver *endpoint.Resolver) *ChatRequestHandler {
	if resolver == nil {
		resolver = endpoint.Default
	}
	return &ChatRequestHandler{db: database, resolver: resolver}
}

// Get handles GET /api/conversations/{id}/chat-request
func (h *ChatRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	conv, err := h.db.GetConversation(id)
	if err == sql.ErrNoRows {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[API] Chat request failed: DB error err=%v", err)
		http.Error(w, "Failed to get conversation", http.StatusInternalServerError)
		return
	}

	req := logic.BuildChatRequest(*conv, h.resolver)
	if req.Dropped > 0 {
		log.Printf("[API] Chat request trimmed history conversation_id=%s agent_id=%s dropped=%d", id, req.AgentID, req.Dropped)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(req)
}
