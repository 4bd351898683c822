package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"data-agent-chat/internal/agent"
	"data-agent-chat/internal/conversation"
	"data-agent-chat/internal/endpoint"
	"data-agent-chat/internal/logic"
	"data-agent-chat/internal/models"
)

func TestChatRequest_NotFound(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	handler := NewChatRequestHandler(database, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/conversations/x/chat-request", nil)
	req.SetPathValue("id", uuid.NewString())
	w := httptest.NewRecorder()
	handler.Get(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestChatRequest_NormalizedWithHistory(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := database.CreateConversation(models.Conversation{Name: "Sales"})
	if err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}
	if _, err := database.CreateMessage(created.ID, models.RoleUser, "Top products by revenue?"); err != nil {
		t.Fatalf("failed to create message: %v", err)
	}

	resolver := endpoint.NewResolver(endpoint.WithChatEndpoint("/v2/chat"))
	handler := NewChatRequestHandler(database, resolver)

	req := httptest.NewRequest(http.MethodGet, "/api/conversations/"+created.ID+"/chat-request", nil)
	req.SetPathValue("id", created.ID)
	w := httptest.NewRecorder()
	handler.Get(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var got logic.ChatRequest
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if got.Endpoint != "/v2/chat" {
		t.Errorf("expected endpoint '/v2/chat', got '%s'", got.Endpoint)
	}
	if got.AgentID != agent.FallbackID {
		t.Errorf("expected agent %s, got %s", agent.FallbackID, got.AgentID)
	}
	if got.Prompt != conversation.DefaultSystemPrompt {
		t.Errorf("expected default prompt, got %q", got.Prompt)
	}
	if got.Temperature != conversation.DefaultTemperature {
		t.Errorf("expected temperature %v, got %v", conversation.DefaultTemperature, got.Temperature)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "Top products by revenue?" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
	if got.Dropped != 0 {
		t.Errorf("expected nothing dropped, got %d", got.Dropped)
	}
}
