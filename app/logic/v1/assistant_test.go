package v1_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	v1 "github.com/wayfinder-ai/wayfinder/app/logic/v1"
	"github.com/wayfinder-ai/wayfinder/pkg/ai/agents/research"
	"github.com/wayfinder-ai/wayfinder/pkg/types"
)

type tableStub struct{}

func (tableStub) GetTable(...interface{}) string { return "" }

// fakeChat replays scripted completions in call order.
type fakeChat struct {
	queue []string
	calls []string
	err   error
}

func (f *fakeChat) Complete(ctx context.Context, instructions, prompt string) (string, error) {
	f.calls = append(f.calls, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.queue) == 0 {
		return "", fmt.Errorf("unexpected completion call: %s", prompt)
	}
	resp := f.queue[0]
	f.queue = f.queue[1:]
	return resp, nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	return f.text, f.err
}

type fakeResearch struct {
	result *research.Result
	err    error
	calls  int
}

func (f *fakeResearch) Research(ctx context.Context, prompt, conversationID string) (*research.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeCapturer struct {
	calls []string
}

func (f *fakeCapturer) Capture(ctx context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	return "https://static.example/shot-" + fmt.Sprint(len(f.calls)) + ".png", nil
}

type publishedEvent struct {
	kind       string
	topic      string
	message    string
	askingMore bool
	shots      []types.ScreenshotWithURL
}

type fakePublisher struct {
	events []publishedEvent
}

func (f *fakePublisher) PublishProgress(topic, message string) error {
	f.events = append(f.events, publishedEvent{kind: "progress", topic: topic, message: message})
	return nil
}

func (f *fakePublisher) PublishFinal(topic, message string, askingForMore bool, shots []types.ScreenshotWithURL) error {
	f.events = append(f.events, publishedEvent{kind: "final", topic: topic, message: message, askingMore: askingForMore, shots: shots})
	return nil
}

func (f *fakePublisher) PublishAgentAction(topic, action, description string, metadata map[string]any) error {
	f.events = append(f.events, publishedEvent{kind: "action", topic: topic, message: action})
	return nil
}

func (f *fakePublisher) PublishPipelineError(topic, errMsg string) error {
	f.events = append(f.events, publishedEvent{kind: "error", topic: topic, message: errMsg})
	return nil
}

func (f *fakePublisher) finals() []publishedEvent {
	var out []publishedEvent
	for _, e := range f.events {
		if e.kind == "final" {
			out = append(out, e)
		}
	}
	return out
}

type memMessages struct {
	tableStub
	rows []types.ConversationMessage
}

func (m *memMessages) Create(ctx context.Context, data types.ConversationMessage) error {
	m.rows = append(m.rows, data)
	return nil
}

func (m *memMessages) ListByConversation(ctx context.Context, conversationID int64) ([]types.ConversationMessage, error) {
	var out []types.ConversationMessage
	for _, row := range m.rows {
		if row.ConversationID == conversationID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memMessages) DeleteByConversation(ctx context.Context, conversationID int64) error {
	return nil
}

type memScreenshots struct {
	tableStub
	rows []types.MessageScreenshot
}

func (m *memScreenshots) BatchCreate(ctx context.Context, datas []types.MessageScreenshot) error {
	m.rows = append(m.rows, datas...)
	return nil
}

func (m *memScreenshots) ListByMessages(ctx context.Context, messageIDs []string) ([]types.MessageScreenshot, error) {
	return m.rows, nil
}

func (m *memScreenshots) DeleteByMessages(ctx context.Context, messageIDs []string) error {
	return nil
}

type memFacts struct {
	tableStub
	rows []types.KnowledgeFact
}

func (m *memFacts) BatchCreate(ctx context.Context, datas []types.KnowledgeFact) error {
	m.rows = append(m.rows, datas...)
	return nil
}

func (m *memFacts) ListByUser(ctx context.Context, userID string) ([]types.KnowledgeFact, error) {
	var out []types.KnowledgeFact
	for _, row := range m.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memFacts) Delete(ctx context.Context, userID, id string) error { return nil }

type memUsers struct {
	tableStub
	user *types.User
}

func (m *memUsers) Create(ctx context.Context, data types.User) error { return nil }

func (m *memUsers) GetUser(ctx context.Context, id string) (*types.User, error) {
	if m.user == nil || m.user.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	return nil, sql.ErrNoRows
}

func (m *memUsers) UpdateProfile(ctx context.Context, id string, profile types.UserProfile) error {
	return nil
}

func (m *memUsers) Total(ctx context.Context) (int64, error) { return 0, nil }

type pipelineEnv struct {
	chat        *fakeChat
	research    *fakeResearch
	capturer    *fakeCapturer
	publisher   *fakePublisher
	messages    *memMessages
	screenshots *memScreenshots
	facts       *memFacts
	users       *memUsers
	logic       *v1.AssistantLogic
}

func newPipelineEnv(t *testing.T, chat *fakeChat, delegate *fakeResearch) *pipelineEnv {
	t.Helper()
	env := &pipelineEnv{
		chat:        chat,
		research:    delegate,
		capturer:    &fakeCapturer{},
		publisher:   &fakePublisher{},
		messages:    &memMessages{},
		screenshots: &memScreenshots{},
		facts:       &memFacts{},
		users:       &memUsers{},
	}
	env.logic = v1.NewAssistantLogicWithDeps(context.Background(), v1.AssistantDeps{
		Chat:        chat,
		Transcribe:  &fakeTranscriber{},
		Research:    delegate,
		Capturer:    env.capturer,
		Publisher:   env.publisher,
		Messages:    env.messages,
		Screenshots: env.screenshots,
		Users:       env.users,
		Facts:       env.facts,
	})
	return env
}

func testConversation() *types.Conversation {
	return &types.Conversation{
		ID:     1001,
		UUID:   "conv-abc",
		UserID: "user-1",
		Topic:  "dinner in lyon",
	}
}

const irrelevantEval = `{"isRelevant": false, "confidence_score": null, "content": null}`

func TestProcessRequest_InsufficientQuery(t *testing.T) {
	clarification := "<p>Which city are you in?</p>"
	chat := &fakeChat{queue: []string{
		irrelevantEval, // knowledge evaluation
		clarification,  // verify: not "true", so a clarification
	}}
	delegate := &fakeResearch{}
	env := newPipelineEnv(t, chat, delegate)

	result, err := env.logic.ProcessRequest(v1.AssistantRequest{
		UserID:          "user-1",
		Query:           "find me a restaurant",
		Conversation:    testConversation(),
		PersistUserTurn: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if !result.IsAskingForMoreInformation {
		t.Error("expected the pipeline to ask for more information")
	}
	if result.Message != clarification {
		t.Errorf("expected clarification message, got %q", result.Message)
	}
	if delegate.calls != 0 {
		t.Errorf("research must not run for an insufficient query, got %d calls", delegate.calls)
	}

	finals := env.publisher.finals()
	if len(finals) != 1 {
		t.Fatalf("expected exactly one final event, got %d", len(finals))
	}
	if !finals[0].askingMore {
		t.Error("final event should carry isAskingForMoreInformation")
	}

	// user turn plus the recorded clarification turn
	if len(env.messages.rows) != 2 {
		t.Fatalf("expected 2 persisted messages, got %d", len(env.messages.rows))
	}
	last := env.messages.rows[1]
	if last.Role != types.ASSISTANT_ROLE || !last.IsAskingForMoreInformation {
		t.Errorf("clarification turn persisted wrong: %+v", last)
	}
}

func TestProcessRequest_FullPipeline(t *testing.T) {
	answer := "<p>Try Le Bouchon: https://lebouchon.example/menu and https://other.example</p>"
	chat := &fakeChat{queue: []string{
		`{"isRelevant": true, "confidence_score": 0.9, "content": "Allergy: cats"}`,
		`{"shouldInsert": true, "cleanContent": "Allergy: cats"}`,
		"true", // verify
		answer, // humanize
	}}
	delegate := &fakeResearch{result: &research.Result{
		Response: "Le Bouchon serves lyonnaise cuisine.",
		Sources:  []string{"https://lebouchon.example"},
	}}
	env := newPipelineEnv(t, chat, delegate)

	result, err := env.logic.ProcessRequest(v1.AssistantRequest{
		UserID:          "user-1",
		Query:           "I am allergic to cats, find me a restaurant in Lyon for Friday",
		Conversation:    testConversation(),
		PersistUserTurn: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.IsAskingForMoreInformation {
		t.Error("sufficient query should not ask for more information")
	}
	if result.Message != answer {
		t.Errorf("unexpected final message: %q", result.Message)
	}
	if delegate.calls != 1 {
		t.Errorf("expected one research call, got %d", delegate.calls)
	}
	if len(result.Screenshots) != 2 {
		t.Fatalf("expected 2 screenshots, got %d", len(result.Screenshots))
	}
	if result.Screenshots[0].OriginalURL != "https://lebouchon.example/menu" {
		t.Errorf("unexpected first screenshot source: %s", result.Screenshots[0].OriginalURL)
	}

	if len(env.facts.rows) != 1 || env.facts.rows[0].Content != "Allergy: cats" {
		t.Errorf("expected the extracted fact to be stored, got %+v", env.facts.rows)
	}
	if env.facts.rows[0].ConfidenceScore != 0.9 {
		t.Errorf("fact should carry the evaluation confidence, got %f", env.facts.rows[0].ConfidenceScore)
	}

	finals := env.publisher.finals()
	if len(finals) != 1 {
		t.Fatalf("expected exactly one final event, got %d", len(finals))
	}
	if len(finals[0].shots) != 2 {
		t.Errorf("final event should carry the captured screenshots")
	}

	var progress []string
	for _, e := range env.publisher.events {
		if e.kind == "progress" {
			progress = append(progress, e.message)
		}
	}
	want := []string{
		"Processing your request...",
		"Analyzing your query...",
		"Preparing your personalized response...",
		"Getting images...",
	}
	if strings.Join(progress, "|") != strings.Join(want, "|") {
		t.Errorf("progress sequence mismatch: %v", progress)
	}

	if len(env.screenshots.rows) != 2 {
		t.Errorf("screenshots should persist alongside the assistant turn, got %d", len(env.screenshots.rows))
	}
}

func TestProcessRequest_MissingCapturerSkipsImages(t *testing.T) {
	answer := "<p>Try Le Bouchon: https://lebouchon.example/menu</p>"
	chat := &fakeChat{queue: []string{
		irrelevantEval,
		"true", // verify
		answer, // humanize
	}}
	delegate := &fakeResearch{result: &research.Result{
		Response: "Le Bouchon serves lyonnaise cuisine.",
		Sources:  []string{"https://lebouchon.example"},
	}}

	publisher := &fakePublisher{}
	messages := &memMessages{}
	screenshots := &memScreenshots{}
	logic := v1.NewAssistantLogicWithDeps(context.Background(), v1.AssistantDeps{
		Chat:        chat,
		Transcribe:  &fakeTranscriber{},
		Research:    delegate,
		Publisher:   publisher,
		Messages:    messages,
		Screenshots: screenshots,
		Users:       &memUsers{},
		Facts:       &memFacts{},
	})

	result, err := logic.ProcessRequest(v1.AssistantRequest{
		UserID:          "user-1",
		Query:           "dinner for two in Lyon on Friday, no shellfish",
		Conversation:    testConversation(),
		PersistUserTurn: true,
	})
	if err != nil {
		t.Fatalf("a run without a capturer must still complete: %v", err)
	}

	if len(result.Screenshots) != 0 {
		t.Errorf("no capturer means no screenshots, got %v", result.Screenshots)
	}
	finals := publisher.finals()
	if len(finals) != 1 {
		t.Fatalf("expected exactly one final event, got %d", len(finals))
	}
	if finals[0].message != answer {
		t.Errorf("unexpected final message: %q", finals[0].message)
	}
	if len(messages.rows) != 3 {
		t.Errorf("user, verify and answer turns should all persist, got %d rows", len(messages.rows))
	}
	if len(screenshots.rows) != 0 {
		t.Errorf("no screenshot rows may persist without a capturer, got %d", len(screenshots.rows))
	}
}

func TestProcessRequest_NoConversationEmitsNothing(t *testing.T) {
	chat := &fakeChat{queue: []string{
		irrelevantEval,
		"true",
		"<p>All set.</p>",
	}}
	delegate := &fakeResearch{result: &research.Result{Response: "ok"}}
	env := newPipelineEnv(t, chat, delegate)

	result, err := env.logic.ProcessRequest(v1.AssistantRequest{
		UserID: "user-1",
		Query:  "book me a table anywhere in Lyon tonight",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result == nil || result.Message == "" {
		t.Fatal("pipeline should still produce a result without a conversation")
	}

	if len(env.publisher.events) != 0 {
		t.Errorf("no events may leave an anonymous run, got %v", env.publisher.events)
	}
	if len(env.messages.rows) != 0 {
		t.Errorf("nothing should persist without a conversation, got %d rows", len(env.messages.rows))
	}
}

func TestProcessRequest_ResearchFailureReportsError(t *testing.T) {
	chat := &fakeChat{queue: []string{
		irrelevantEval,
		"true",
	}}
	delegate := &fakeResearch{err: errors.New("delegate unreachable")}
	env := newPipelineEnv(t, chat, delegate)

	_, err := env.logic.ProcessRequest(v1.AssistantRequest{
		UserID:          "user-1",
		Query:           "weekend trip from Lyon to Nice by train",
		Conversation:    testConversation(),
		PersistUserTurn: true,
	})
	if err == nil {
		t.Fatal("research failure must surface to the runner")
	}

	var errorEvents, finals int
	for _, e := range env.publisher.events {
		switch e.kind {
		case "error":
			errorEvents++
		case "final":
			finals++
		}
	}
	if errorEvents != 1 {
		t.Errorf("expected one pipeline error event, got %d", errorEvents)
	}
	if finals != 0 {
		t.Errorf("a failed run must not emit a final event, got %d", finals)
	}

	// the user turn and the persisted verify response remain
	if len(env.messages.rows) != 2 {
		t.Errorf("expected 2 persisted messages, got %d", len(env.messages.rows))
	}
}

func TestProcessNewMessage_SkipsVerify(t *testing.T) {
	answer := "<p>The second spot also has outdoor seating.</p>"
	chat := &fakeChat{queue: []string{
		irrelevantEval,
		answer, // humanize; no verify call in the continue flow
	}}
	delegate := &fakeResearch{result: &research.Result{Response: "details", Sources: []string{"https://spot.example"}}}
	env := newPipelineEnv(t, chat, delegate)

	conversation := testConversation()
	env.messages.rows = []types.ConversationMessage{
		{ID: "m1", ConversationID: conversation.ID, Role: types.USER_ROLE, Content: "find me a restaurant in Lyon"},
		{ID: "m2", ConversationID: conversation.ID, Role: types.ASSISTANT_ROLE, Content: "<p>Here are three.</p>"},
	}

	result, err := env.logic.ProcessNewMessage(v1.AssistantRequest{
		UserID:          "user-1",
		Query:           "which one has outdoor seating?",
		Conversation:    conversation,
		PersistUserTurn: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.IsAskingForMoreInformation {
		t.Error("continue flow never asks for more information")
	}
	if delegate.calls != 1 {
		t.Errorf("expected one research call, got %d", delegate.calls)
	}
	// prior turns + new user turn + assistant answer
	if len(env.messages.rows) != 4 {
		t.Errorf("expected 4 messages after the run, got %d", len(env.messages.rows))
	}
}

func TestResolveInput_NoInput(t *testing.T) {
	env := newPipelineEnv(t, &fakeChat{}, &fakeResearch{})

	if _, err := env.logic.ResolveInput("", nil, ""); err == nil {
		t.Fatal("empty input must fail")
	}
	if len(env.publisher.events) != 0 || len(env.messages.rows) != 0 {
		t.Error("a failed input resolve must leave no side effects")
	}
}

func TestResolveInput_AudioWins(t *testing.T) {
	env := newPipelineEnv(t, &fakeChat{}, &fakeResearch{})
	logic := v1.NewAssistantLogicWithDeps(context.Background(), v1.AssistantDeps{
		Chat:        env.chat,
		Transcribe:  &fakeTranscriber{text: "table for two tonight"},
		Research:    env.research,
		Publisher:   env.publisher,
		Messages:    env.messages,
		Screenshots: env.screenshots,
		Users:       env.users,
		Facts:       env.facts,
	})

	got, err := logic.ResolveInput("note.m4a", strings.NewReader("audio-bytes"), "ignored text")
	if err != nil {
		t.Fatal(err)
	}
	if got != "table for two tonight" {
		t.Errorf("transcription should win over text, got %q", got)
	}
}
