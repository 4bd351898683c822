package logic

import (
	"strings"
	"testing"

	"data-agent-chat/internal/agent"
	"data-agent-chat/internal/conversation"
	"data-agent-chat/internal/endpoint"
	"data-agent-chat/internal/models"
)

func msgs(contents ...string) []models.Message {
	out := make([]models.Message, len(contents))
	for i, c := range contents {
		out[i] = models.Message{ID: int64(i + 1), Role: models.RoleUser, Content: c}
	}
	return out
}

func TestFitHistory(t *testing.T) {
	tests := []struct {
		name      string
		messages  []models.Message
		prompt    string
		maxLength int
		wantIDs   []int64
	}{
		{
			name:      "everything fits",
			messages:  msgs("aa", "bb", "cc"),
			prompt:    "p",
			maxLength: 100,
			wantIDs:   []int64{1, 2, 3},
		},
		{
			name:      "oldest dropped first",
			messages:  msgs("aaaa", "bbbb", "cccc"),
			prompt:    "pp",
			maxLength: 10,
			wantIDs:   []int64{2, 3},
		},
		{
			name:      "exact budget kept",
			messages:  msgs("aaa", "bbb"),
			prompt:    "pppp",
			maxLength: 10,
			wantIDs:   []int64{1, 2},
		},
		{
			name:      "newest kept even when too long",
			messages:  msgs("a", strings.Repeat("x", 50)),
			prompt:    "",
			maxLength: 10,
			wantIDs:   []int64{2},
		},
		{
			name:      "counts characters not bytes",
			messages:  msgs("データ", "分析"),
			prompt:    "",
			maxLength: 5,
			wantIDs:   []int64{1, 2},
		},
		{
			name:      "non-positive budget disables trimming",
			messages:  msgs("aaaa", "bbbb"),
			prompt:    "",
			maxLength: 0,
			wantIDs:   []int64{1, 2},
		},
		{
			name:      "no messages",
			messages:  nil,
			prompt:    "p",
			maxLength: 10,
			wantIDs:   []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitHistory(tt.messages, tt.prompt, tt.maxLength)
			if got == nil {
				t.Fatal("FitHistory returned nil")
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("expected %d messages, got %d", len(tt.wantIDs), len(got))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("message %d: expected ID %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestBuildChatRequest_EmptyConversation(t *testing.T) {
	req := BuildChatRequest(models.Conversation{}, nil)

	fallback := agent.Fallback()
	if req.AgentID != fallback.ID {
		t.Errorf("expected agent %s, got %s", fallback.ID, req.AgentID)
	}
	if req.Endpoint != endpoint.ChatPath {
		t.Errorf("expected endpoint %s, got %s", endpoint.ChatPath, req.Endpoint)
	}
	if req.Prompt != conversation.DefaultSystemPrompt {
		t.Errorf("expected default prompt, got %q", req.Prompt)
	}
	if req.Temperature != conversation.DefaultTemperature {
		t.Errorf("expected temperature %v, got %v", conversation.DefaultTemperature, req.Temperature)
	}
	if req.MaxTokens != fallback.TokenLimit {
		t.Errorf("expected max tokens %d, got %d", fallback.TokenLimit, req.MaxTokens)
	}
	if req.Messages == nil || len(req.Messages) != 0 || req.Dropped != 0 {
		t.Errorf("expected no messages, got %v dropped=%d", req.Messages, req.Dropped)
	}
}

func TestBuildChatRequest_TrimsToAgentBudget(t *testing.T) {
	prompt := "short"
	long := strings.Repeat("x", agent.Fallback().MaxLength/2)
	conv := models.Conversation{
		Prompt:   &prompt,
		Messages: msgs(long, long, "latest"),
	}

	req := BuildChatRequest(conv, nil)

	if len(req.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(req.Messages))
	}
	if req.Dropped != 1 {
		t.Errorf("expected 1 dropped message, got %d", req.Dropped)
	}
	if req.Messages[1].Content != "latest" {
		t.Errorf("expected newest message last, got %q", req.Messages[1].Content)
	}
}

func TestBuildChatRequest_UnknownAgentFallsBack(t *testing.T) {
	retired := agent.Agent{ID: "retired", MaxLength: 1, TokenLimit: 1}
	req := BuildChatRequest(models.Conversation{Agent: &retired}, nil)

	if req.AgentID != agent.FallbackID {
		t.Errorf("expected fallback agent, got %s", req.AgentID)
	}
	if req.MaxTokens != agent.Fallback().TokenLimit {
		t.Errorf("expected catalog token limit, got %d", req.MaxTokens)
	}
}

func TestBuildChatRequest_UsesResolver(t *testing.T) {
	resolver := endpoint.NewResolver(endpoint.WithRoute(agent.DataAgent, "/data/chat"))
	req := BuildChatRequest(models.Conversation{}, resolver)

	if req.Endpoint != "/data/chat" {
		t.Errorf("expected '/data/chat', got '%s'", req.Endpoint)
	}
}
