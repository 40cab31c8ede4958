package ai

import (
	"strings"
	"testing"
	"time"

	"github.com/wayfinder-ai/wayfinder/pkg/types"
)

func TestBuildVerifyQueryPrompt(t *testing.T) {
	got := BuildVerifyQueryPrompt("I want to go to London", "City: Paris")

	if !strings.Contains(got, "I want to go to London") {
		t.Error("prompt must embed the user query")
	}
	if !strings.Contains(got, "City: Paris") {
		t.Error("prompt must embed the personal context")
	}
	if !strings.Contains(got, "return only: true") {
		t.Error("prompt must state the boolean protocol")
	}
	if strings.Contains(got, "${") {
		t.Errorf("unresolved template vars left in prompt: %s", got)
	}
}

func TestBuildAgentPrompt(t *testing.T) {
	now := time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)
	got := BuildAgentPrompt("I need a PS5 near Manhattan", "", now)

	if !strings.Contains(got, "I need a PS5 near Manhattan") {
		t.Error("prompt must embed the user query")
	}
	if !strings.Contains(got, "March 7, 2025") {
		t.Errorf("prompt must render the current date in long form, got:\n%s", got)
	}
	if strings.Contains(got, "${") {
		t.Error("unresolved template vars left in prompt")
	}
}

func TestBuildHistoryAgentPrompt(t *testing.T) {
	history := []types.HistoryEntry{
		{Role: types.USER_ROLE, Content: "I want to go to London from Paris"},
		{Role: types.ASSISTANT_ROLE, Content: "Here are some flights"},
	}
	got := BuildHistoryAgentPrompt(history, "What about trains?", "City: Paris")

	if !strings.Contains(got, "I want to go to London from Paris\nHere are some flights") {
		t.Error("history must be newline-joined in order")
	}
	if !strings.Contains(got, "What about trains?") {
		t.Error("prompt must embed the new message")
	}
	if strings.Contains(got, "${") {
		t.Error("unresolved template vars left in prompt")
	}
}

func TestBuildReadablePrompt(t *testing.T) {
	got := BuildReadablePrompt("raw findings\n- https://example.com", "best sushi in Tokyo")

	if !strings.Contains(got, "raw findings") {
		t.Error("prompt must embed the agent response")
	}
	if !strings.Contains(got, "best sushi in Tokyo") {
		t.Error("prompt must embed the original query")
	}
	if !strings.Contains(got, "<a href=") {
		t.Error("prompt must carry the html element rules")
	}
	if strings.Contains(got, "${") {
		t.Error("unresolved template vars left in prompt")
	}
}

func TestBuildKnowledgeDedupPrompt(t *testing.T) {
	got := BuildKnowledgeDedupPrompt([]string{"City: Toulouse", "Likes: hiking"}, "Allergy: cats")

	if !strings.Contains(got, "City: Toulouse\nLikes: hiking") {
		t.Error("existing facts must be newline-joined")
	}
	if !strings.Contains(got, "Allergy: cats") {
		t.Error("prompt must embed the candidate fact")
	}
	if !strings.Contains(got, "shouldInsert") || !strings.Contains(got, "cleanContent") {
		t.Error("prompt must state the json envelope fields")
	}
	if strings.Contains(got, "${") {
		t.Error("unresolved template vars left in prompt")
	}
}
