package v1_test

import (
	"context"
	"strings"
	"testing"

	v1 "github.com/wayfinder-ai/wayfinder/app/logic/v1"
	"github.com/wayfinder-ai/wayfinder/pkg/types"
)

func newKnowledgeLogic(chat *fakeChat, users *memUsers, facts *memFacts) *v1.KnowledgeLogic {
	return v1.NewKnowledgeLogicWithDeps(context.Background(), chat, users, facts)
}

func TestEvaluate_MalformedResponse(t *testing.T) {
	chat := &fakeChat{queue: []string{"sorry, I cannot help with that"}}
	logic := newKnowledgeLogic(chat, &memUsers{}, &memFacts{})

	if _, err := logic.Evaluate("I live in Lyon"); err == nil {
		t.Fatal("a non-JSON evaluation response must be an error")
	}
}

func TestInsertIfNew_IrrelevantSkipsEverything(t *testing.T) {
	chat := &fakeChat{}
	facts := &memFacts{}
	logic := newKnowledgeLogic(chat, &memUsers{}, facts)

	logic.InsertIfNew("user-1", &types.KnowledgeEvaluation{IsRelevant: false})

	if len(chat.calls) != 0 {
		t.Error("irrelevant evaluations must not trigger a dedup pass")
	}
	if len(facts.rows) != 0 {
		t.Error("irrelevant evaluations must not insert facts")
	}
}

func TestInsertIfNew_AnonymousSkips(t *testing.T) {
	chat := &fakeChat{}
	facts := &memFacts{}
	logic := newKnowledgeLogic(chat, &memUsers{}, facts)

	logic.InsertIfNew("", &types.KnowledgeEvaluation{IsRelevant: true, Content: "City: Lyon", ConfidenceScore: 0.9})

	if len(facts.rows) != 0 {
		t.Error("facts must never be stored without a user identity")
	}
}

func TestInsertIfNew_DuplicateRejected(t *testing.T) {
	chat := &fakeChat{queue: []string{`{"shouldInsert": false, "cleanContent": ""}`}}
	facts := &memFacts{rows: []types.KnowledgeFact{
		{ID: "f1", UserID: "user-1", Content: "City: Lyon"},
	}}
	logic := newKnowledgeLogic(chat, &memUsers{}, facts)

	logic.InsertIfNew("user-1", &types.KnowledgeEvaluation{IsRelevant: true, Content: "I live in Lyon", ConfidenceScore: 0.8})

	if len(facts.rows) != 1 {
		t.Errorf("duplicate fact must not be inserted, got %d rows", len(facts.rows))
	}
	if len(chat.calls) != 1 || !strings.Contains(chat.calls[0], "City: Lyon") {
		t.Error("the dedup prompt should carry the existing facts")
	}
}

func TestInsertIfNew_SemicolonSplitsIntoRows(t *testing.T) {
	chat := &fakeChat{queue: []string{`{"shouldInsert": true, "cleanContent": "Allergy: cats; Diet: vegetarian"}`}}
	facts := &memFacts{}
	logic := newKnowledgeLogic(chat, &memUsers{}, facts)

	logic.InsertIfNew("user-1", &types.KnowledgeEvaluation{IsRelevant: true, Content: "I am a vegetarian and allergic to cats", ConfidenceScore: 0.85})

	if len(facts.rows) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(facts.rows))
	}
	if facts.rows[0].Content != "Allergy: cats" || facts.rows[1].Content != "Diet: vegetarian" {
		t.Errorf("unexpected fact contents: %+v", facts.rows)
	}
	for _, row := range facts.rows {
		if row.ConfidenceScore != 0.85 {
			t.Errorf("each split fact shares the evaluation confidence, got %f", row.ConfidenceScore)
		}
	}
}

func TestBuildContext_Anonymous(t *testing.T) {
	logic := newKnowledgeLogic(&fakeChat{}, &memUsers{}, &memFacts{})
	if got := logic.BuildContext(""); got != "" {
		t.Errorf("anonymous context must be empty, got %q", got)
	}
}

func TestBuildContext_ProfileAndFacts(t *testing.T) {
	users := &memUsers{user: &types.User{ID: "user-1", City: "Lyon", Country: "France"}}
	facts := &memFacts{rows: []types.KnowledgeFact{
		{ID: "f1", UserID: "user-1", Content: "Allergy: cats"},
	}}
	logic := newKnowledgeLogic(&fakeChat{}, users, facts)

	got := logic.BuildContext("user-1")
	for _, want := range []string{"City: Lyon", "Country: France", "Postal code: unknown", "Allergy: cats"} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q:\n%s", want, got)
		}
	}
}

func TestBuildContext_UnknownUserStillReturnsFacts(t *testing.T) {
	facts := &memFacts{rows: []types.KnowledgeFact{
		{ID: "f1", UserID: "user-2", Content: "Diet: halal"},
	}}
	logic := newKnowledgeLogic(&fakeChat{}, &memUsers{}, facts)

	got := logic.BuildContext("user-2")
	if !strings.Contains(got, "Diet: halal") {
		t.Errorf("facts should survive a missing profile row, got %q", got)
	}
}
