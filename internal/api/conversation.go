package api

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"data-agent-chat/internal/agent"
	"data-agent-chat/internal/conversation"
	"data-agent-chat/internal/db"
	"data-agent-chat/internal/models"
)

const defaultConversationName = "New Conversation"

// ConversationHandler handles conversation-related HTTP requests
type ConversationHandler struct {
	db          *db.DB
	broadcaster *EventBroadcaster
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(database *db.DB) *ConversationHandler {
	return &ConversationHandler{
		db: database,
	}
}

// SetBroadcaster sets the broadcaster used to announce changes
func (h *ConversationHandler) SetBroadcaster(broadcaster *EventBroadcaster) {
	h.broadcaster = broadcaster
}

// ConversationRequest is the body of POST and PUT /api/conversations.
// Omitted optional fields are stored as unset.
type ConversationRequest struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	AgentID     *string  `json:"agentId,omitempty"`
	Prompt      *string  `json:"prompt,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	FolderID    *string  `json:"folderId,omitempty"`
}

// SendMessageRequest represents the request body for appending a message
type SendMessageRequest struct {
	Role    models.Role `json:"role"`
	Content string      `json:"content"`
}

// toConversation validates req and converts it to a storable record.
// On failure it returns the message to send with a 400.
func (h *ConversationHandler) toConversation(req ConversationRequest) (models.Conversation, string) {
	conv := models.Conversation{
		ID:          req.ID,
		Name:        strings.TrimSpace(req.Name),
		Prompt:      req.Prompt,
		Temperature: req.Temperature,
		FolderID:    req.FolderID,
	}
	if conv.Name == "" {
		conv.Name = defaultConversationName
	}

	if req.AgentID != nil && *req.AgentID != "" {
		a, ok := agent.Lookup(agent.ID(*req.AgentID))
		if !ok {
			return conv, "Unknown agent"
		}
		conv.Agent = &a
	}

	if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 2) {
		return conv, "Temperature must be between 0 and 2"
	}

	if req.FolderID != nil && *req.FolderID != "" {
		if _, err := h.db.GetFolder(*req.FolderID); err != nil {
			return conv, "Folder not found"
		}
	}

	return conv, ""
}

// Create handles POST /api/conversations
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	log.Printf("[API] Create conversation started")

	var req ConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[API] Create conversation failed: invalid request body err=%v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ID != "" {
		if err := uuid.Validate(req.ID); err != nil {
			http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
			return
		}
	}

	conv, msg := h.toConversation(req)
	if msg != "" {
		log.Printf("[API] Create conversation failed: %s", msg)
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	created, err := h.db.CreateConversation(conv)
	if err != nil {
		log.Printf("[API] Failed to create conversation in DB err=%v", err)
		http.Error(w, "Failed to create conversation", http.StatusInternalServerError)
		return
	}

	log.Printf("[API] Create conversation completed conversation_id=%s", created.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(conversation.Normalize(*created))
}

// List handles GET /api/conversations
// An optional folder_id query parameter restricts the result to one folder;
// folder_id=none selects conversations outside any folder.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.db.GetAllConversations()
	if err != nil {
		log.Printf("[API] List conversations failed err=%v", err)
		http.Error(w, "Failed to get conversations", http.StatusInternalServerError)
		return
	}

	response := conversation.NormalizeAll(conversations)

	if r.URL.Query().Has("folder_id") {
		response = filterByFolder(response, r.URL.Query().Get("folder_id"))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func filterByFolder(conversations []models.Conversation, folderID string) []models.Conversation {
	filtered := []models.Conversation{}
	for _, c := range conversations {
		switch {
		case folderID == "none" && c.FolderID == nil:
			filtered = append(filtered, c)
		case c.FolderID != nil && *c.FolderID == folderID:
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// Get handles GET /api/conversations/{id}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	conv, err := h.db.GetConversation(r.PathValue("id"))
	if err == sql.ErrNoRows {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[API] Get conversation failed err=%v", err)
		http.Error(w, "Failed to get conversation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(conversation.Normalize(*conv))
}

// Update handles PUT /api/conversations/{id}
func (h *ConversationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	log.Printf("[API] Update conversation started conversation_id=%s", id)

	var req ConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	conv, msg := h.toConversation(req)
	if msg != "" {
		log.Printf("[API] Update conversation failed: %s conversation_id=%s", msg, id)
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	conv.ID = id

	updated, err := h.db.UpdateConversation(conv)
	if err == sql.ErrNoRows {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[API] Update conversation failed: DB error err=%v", err)
		http.Error(w, "Failed to update conversation", http.StatusInternalServerError)
		return
	}

	normalized := conversation.Normalize(*updated)
	if h.broadcaster != nil {
		h.broadcaster.BroadcastConversationUpdated(id, normalized)
	}

	log.Printf("[API] Update conversation completed conversation_id=%s", id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(normalized)
}

// Delete handles DELETE /api/conversations/{id}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	log.Printf("[API] Delete conversation started conversation_id=%s", id)

	err := h.db.DeleteConversation(id)
	if err == sql.ErrNoRows {
		log.Printf("[API] Delete conversation failed: conversation not found conversation_id=%s", id)
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[API] Delete conversation failed: DB error deleting conversation err=%v", err)
		http.Error(w, "Failed to delete conversation", http.StatusInternalServerError)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastConversationDeleted(id)
	}

	log.Printf("[API] Delete conversation completed conversation_id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}

// GetMessages handles GET /api/conversations/{id}/messages
func (h *ConversationHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := h.db.GetConversation(id); err == sql.ErrNoRows {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Printf("[API] GetMessages failed: DB error getting conversation err=%v", err)
		http.Error(w, "Failed to get conversation", http.StatusInternalServerError)
		return
	}

	messages, err := h.db.GetMessages(id)
	if err != nil {
		log.Printf("[API] GetMessages failed: DB error getting messages err=%v", err)
		http.Error(w, "Failed to get messages", http.StatusInternalServerError)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	log.Printf("[API] GetMessages completed conversation_id=%s message_count=%d", id, len(messages))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

// SendMessage handles POST /api/conversations/{id}/messages.
// The message is stored only; no model request is issued.
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if !req.Role.Valid() {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "Content is required", http.StatusBadRequest)
		return
	}

	if _, err := h.db.GetConversation(id); err == sql.ErrNoRows {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Printf("[API] SendMessage failed: DB error getting conversation err=%v", err)
		http.Error(w, "Failed to get conversation", http.StatusInternalServerError)
		return
	}

	msg, err := h.db.CreateMessage(id, req.Role, req.Content)
	if err != nil {
		log.Printf("[API] SendMessage failed: DB error err=%v", err)
		http.Error(w, "Failed to save message", http.StatusInternalServerError)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastMessage(id, msg)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}
