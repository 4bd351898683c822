package db

import (
	"database/sql"
	"testing"

	"data-agent-chat/internal/agent"
	"data-agent-chat/internal/models"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestCreateConversation_Partial(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	conv, err := db.CreateConversation(models.Conversation{Name: "Test Chat"})
	if err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}

	if conv.ID == "" {
		t.Error("expected generated ID")
	}

	got, err := db.GetConversation(conv.ID)
	if err != nil {
		t.Fatalf("failed to get conversation: %v", err)
	}

	if got.Name != "Test Chat" {
		t.Errorf("expected name 'Test Chat', got '%s'", got.Name)
	}
	if got.Agent != nil || got.Prompt != nil || got.Temperature != nil || got.FolderID != nil {
		t.Errorf("expected unset optional fields to load as nil, got %+v", got)
	}
	if got.Messages != nil {
		t.Errorf("expected nil messages, got %v", got.Messages)
	}
}

func TestCreateConversation_AllFields(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	folder, err := db.CreateFolder("Reports")
	if err != nil {
		t.Fatalf("failed to create folder: %v", err)
	}

	fallback := agent.Fallback()
	created, err := db.CreateConversation(models.Conversation{
		ID:          "conv-fixed-id",
		Name:        "Full",
		Agent:       &fallback,
		Prompt:      strPtr("be brief"),
		Temperature: floatPtr(0.3),
		FolderID:    &folder.ID,
	})
	if err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}
	if created.ID != "conv-fixed-id" {
		t.Errorf("expected provided ID to be kept, got '%s'", created.ID)
	}

	got, err := db.GetConversation("conv-fixed-id")
	if err != nil {
		t.Fatalf("failed to get conversation: %v", err)
	}

	if got.Agent == nil || got.Agent.ID != agent.FallbackID {
		t.Errorf("expected agent %s, got %+v", agent.FallbackID, got.Agent)
	}
	if got.Prompt == nil || *got.Prompt != "be brief" {
		t.Errorf("expected prompt 'be brief', got %v", got.Prompt)
	}
	if got.Temperature == nil || *got.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %v", got.Temperature)
	}
	if got.FolderID == nil || *got.FolderID != folder.ID {
		t.Errorf("expected folder %s, got %v", folder.ID, got.FolderID)
	}
}

func TestCreateConversation_ZeroTemperatureStored(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	conv, err := db.CreateConversation(models.Conversation{Name: "Zero", Temperature: floatPtr(0)})
	if err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}

	got, err := db.GetConversation(conv.ID)
	if err != nil {
		t.Fatalf("failed to get conversation: %v", err)
	}

	// Storage keeps the explicit zero; only normalization treats it as unset
	if got.Temperature == nil || *got.Temperature != 0 {
		t.Errorf("expected stored temperature 0, got %v", got.Temperature)
	}
}

func TestCreateConversation_UnknownFolder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.CreateConversation(models.Conversation{Name: "Orphan", FolderID: strPtr("missing")})
	if err == nil {
		t.Error("expected foreign key error for unknown folder")
	}
}

func TestGetConversation_UnknownAgentLoadsAsUnset(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	retired := agent.Agent{ID: "retired-agent"}
	conv, err := db.CreateConversation(models.Conversation{Name: "Old", Agent: &retired})
	if err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}

	got, err := db.GetConversation(conv.ID)
	if err != nil {
		t.Fatalf("failed to get conversation: %v", err)
	}
	if got.Agent != nil {
		t.Errorf("expected nil agent for id missing from catalog, got %+v", got.Agent)
	}
}

func TestGetConversation_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.GetConversation("does-not-exist")
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGetAllConversations(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	first, err := db.CreateConversation(models.Conversation{Name: "Conv1"})
	if err != nil {
		t.Fatalf("failed to create conversation 1: %v", err)
	}
	if _, err := db.CreateConversation(models.Conversation{Name: "Conv2"}); err != nil {
		t.Fatalf("failed to create conversation 2: %v", err)
	}
	if _, err := db.CreateMessage(first.ID, models.RoleUser, "hello"); err != nil {
		t.Fatalf("failed to create message: %v", err)
	}

	conversations, err := db.GetAllConversations()
	if err != nil {
		t.Fatalf("failed to get all conversations: %v", err)
	}

	if len(conversations) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(conversations))
	}

	// The conversation with the newest message sorts first
	if conversations[0].ID != first.ID {
		t.Errorf("expected %s first, got %s", first.ID, conversations[0].ID)
	}
	if len(conversations[0].Messages) != 1 {
		t.Errorf("expected 1 message, got %d", len(conversations[0].Messages))
	}
}

func TestGetAllConversations_Empty(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	conversations, err := db.GetAllConversations()
	if err != nil {
		t.Fatalf("failed to get all conversations: %v", err)
	}
	if len(conversations) != 0 {
		t.Errorf("expected 0 conversations, got %d", len(conversations))
	}
}

func TestUpdateConversation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	conv, err := db.CreateConversation(models.Conversation{Name: "Before"})
	if err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}

	conv.Name = "After"
	conv.Prompt = strPtr("new prompt")
	updated, err := db.UpdateConversation(*conv)
	if err != nil {
		t.Fatalf("failed to update conversation: %v", err)
	}

	if updated.Name != "After" {
		t.Errorf("expected name 'After', got '%s'", updated.Name)
	}
	if updated.Prompt == nil || *updated.Prompt != "new prompt" {
		t.Errorf("expected prompt 'new prompt', got %v", updated.Prompt)
	}
	if updated.UpdatedAt.Before(conv.UpdatedAt) {
		t.Errorf("expected updated_at to move forward")
	}
}

func TestUpdateConversation_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.UpdateConversation(models.Conversation{ID: "missing", Name: "x"})
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestDeleteConversation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	conv, err := db.CreateConversation(models.Conversation{Name: "ToDelete"})
	if err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}
	if _, err := db.CreateMessage(conv.ID, models.RoleUser, "bye"); err != nil {
		t.Fatalf("failed to create message: %v", err)
	}

	if err := db.DeleteConversation(conv.ID); err != nil {
		t.Fatalf("failed to delete conversation: %v", err)
	}

	_, err = db.GetConversation(conv.ID)
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows after deletion, got %v", err)
	}

	msgs, err := db.GetMessages(conv.ID)
	if err != nil {
		t.Fatalf("failed to get messages: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected messages to be deleted with conversation, got %d", len(msgs))
	}
}

func TestDeleteConversation_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.DeleteConversation("missing"); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestMessages_ChronologicalOrder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	conv, err := db.CreateConversation(models.Conversation{Name: "Chat"})
	if err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}

	contents := []string{"first", "second", "third"}
	for i, c := range contents {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		if _, err := db.CreateMessage(conv.ID, role, c); err != nil {
			t.Fatalf("failed to create message %d: %v", i, err)
		}
	}

	msgs, err := db.GetMessages(conv.ID)
	if err != nil {
		t.Fatalf("failed to get messages: %v", err)
	}
	if len(msgs) != len(contents) {
		t.Fatalf("expected %d messages, got %d", len(contents), len(msgs))
	}
	for i, c := range contents {
		if msgs[i].Content != c {
			t.Errorf("message %d: expected %q, got %q", i, c, msgs[i].Content)
		}
	}
	if msgs[1].Role != models.RoleAssistant {
		t.Errorf("expected assistant role, got %s", msgs[1].Role)
	}
}

func TestCreateMessage_InvalidRole(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	conv, err := db.CreateConversation(models.Conversation{Name: "Chat"})
	if err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}

	if _, err := db.CreateMessage(conv.ID, models.Role("system"), "x"); err == nil {
		t.Error("expected check constraint error for invalid role")
	}
}
