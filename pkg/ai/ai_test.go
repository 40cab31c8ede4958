package ai

import (
	"testing"

	"github.com/wayfinder-ai/wayfinder/pkg/types"
)

func TestDecisionFromResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{"bare true", "true", true},
		{"uppercase", "TRUE", true},
		{"embedded", "the answer is True.", true},
		{"html clarification", "<p>Please tell me your destination.</p>", false},
		{"empty", "", false},
		{"false", "false", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecisionFromResponse(tt.response); got != tt.want {
				t.Errorf("DecisionFromResponse(%q) = %v, want %v", tt.response, got, tt.want)
			}
		})
	}
}

func TestDecodeJSONResponse(t *testing.T) {
	var decision types.KnowledgeDedupDecision
	raw := "```json\n{\"shouldInsert\": true, \"cleanContent\": \"City: Toulouse; Likes: hiking\"}\n```"
	if err := DecodeJSONResponse(raw, &decision); err != nil {
		t.Fatal(err)
	}
	if !decision.ShouldInsert {
		t.Error("expected shouldInsert to be true")
	}
	if decision.CleanContent != "City: Toulouse; Likes: hiking" {
		t.Errorf("unexpected cleanContent: %q", decision.CleanContent)
	}
}

func TestDecodeJSONResponse_PlainBody(t *testing.T) {
	var eval types.KnowledgeEvaluation
	raw := `{"isRelevant": true, "confidence_score": 0.9, "content": "Allergy: cats"}`
	if err := DecodeJSONResponse(raw, &eval); err != nil {
		t.Fatal(err)
	}
	if !eval.IsRelevant || eval.Content != "Allergy: cats" {
		t.Errorf("unexpected evaluation: %+v", eval)
	}
}

func TestDecodeJSONResponse_Malformed(t *testing.T) {
	var eval types.KnowledgeEvaluation
	if err := DecodeJSONResponse("sure, here is the json you asked for", &eval); err == nil {
		t.Fatal("expected decode error for non-json body")
	}
	if err := DecodeJSONResponse("", &eval); err == nil {
		t.Fatal("expected decode error for empty body")
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.in); got != tt.want {
				t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateHistory(t *testing.T) {
	history := []types.HistoryEntry{
		{Role: types.USER_ROLE, Content: "first message with a fair amount of content in it"},
		{Role: types.ASSISTANT_ROLE, Content: "a long assistant reply with plenty of words to count"},
		{Role: types.USER_ROLE, Content: "newest"},
	}

	got := TruncateHistory(history, "gpt-4o-mini", 5)
	if len(got) == 0 {
		t.Fatal("truncate must never drop every turn")
	}
	if got[len(got)-1].Content != "newest" {
		t.Errorf("newest turn must survive truncation, got %+v", got)
	}

	full := TruncateHistory(history, "gpt-4o-mini", 100000)
	if len(full) != len(history) {
		t.Errorf("history under budget should be untouched, got %d entries", len(full))
	}
}
