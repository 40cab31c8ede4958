package v1

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/wayfinder-ai/wayfinder/app/core"
	"github.com/wayfinder-ai/wayfinder/app/store"
	"github.com/wayfinder-ai/wayfinder/pkg/ai"
	"github.com/wayfinder-ai/wayfinder/pkg/ai/agents/research"
	"github.com/wayfinder-ai/wayfinder/pkg/errors"
	"github.com/wayfinder-ai/wayfinder/pkg/i18n"
	"github.com/wayfinder-ai/wayfinder/pkg/screenshot"
	"github.com/wayfinder-ai/wayfinder/pkg/types"
	"github.com/wayfinder-ai/wayfinder/pkg/types/protocol"
	"github.com/wayfinder-ai/wayfinder/pkg/utils"
)

const (
	// SubscribeGraceNew is how long the entry point waits before starting a
	// fresh conversation's pipeline, so the client can subscribe to the room
	// before the first progress event fires.
	SubscribeGraceNew = 3 * time.Second
	// SubscribeGraceContinue covers continued conversations, whose clients
	// are usually already subscribed.
	SubscribeGraceContinue = time.Second

	// DefaultMaxScreenshots caps the sequential capture loop of the enrich
	// stage.
	DefaultMaxScreenshots = 2

	// historyTokenBudget bounds how much prior conversation the continue
	// flow folds into its prompts.
	historyTokenBudget = 6000
)

const (
	progressProcessing = "Processing your request..."
	progressAnalyzing  = "Analyzing your query..."
	progressPreparing  = "Preparing your personalized response..."
	progressImages     = "Getting images..."
)

// Publisher is the notification surface the pipeline emits on. *srv.Tower
// satisfies it.
type Publisher interface {
	PublishProgress(topic, message string) error
	PublishFinal(topic, message string, askingForMore bool, screenshots []types.ScreenshotWithURL) error
	PublishAgentAction(topic, action, description string, metadata map[string]any) error
	PublishPipelineError(topic, errMsg string) error
}

// AssistantLogic drives the conversation pipeline. All collaborators are
// injected so the flows can run against fakes.
type AssistantLogic struct {
	ctx            context.Context
	chat           ai.ChatAI
	transcribe     ai.TranscribeAI
	research       research.Delegate
	capturer       screenshot.Capturer
	publisher      Publisher
	messages       store.ConversationMessageStore
	screenshots    store.MessageScreenshotStore
	knowledge      *KnowledgeLogic
	locker         *core.KeyLock
	metrics        *core.Metrics
	maxScreenshots int
	chatModel      string
}

// AssistantDeps is the explicit wiring used by tests and by the detached
// pipeline runner.
type AssistantDeps struct {
	Chat           ai.ChatAI
	Transcribe     ai.TranscribeAI
	Research       research.Delegate
	Capturer       screenshot.Capturer
	Publisher      Publisher
	Messages       store.ConversationMessageStore
	Screenshots    store.MessageScreenshotStore
	Users          store.UserStore
	Facts          store.KnowledgeFactStore
	Locker         *core.KeyLock
	Metrics        *core.Metrics
	MaxScreenshots int
	ChatModel      string
}

func NewAssistantLogic(ctx context.Context, core *core.Core) *AssistantLogic {
	return NewAssistantLogicWithDeps(ctx, AssistantDeps{
		Chat:           core.Srv().AI(),
		Transcribe:     core.Srv().AI(),
		Research:       core.Srv().Research(),
		Capturer:       core.Srv().Capturer(),
		Publisher:      core.Srv().Tower(),
		Messages:       core.Store().ConversationMessageStore(),
		Screenshots:    core.Store().MessageScreenshotStore(),
		Users:          core.Store().UserStore(),
		Facts:          core.Store().KnowledgeFactStore(),
		Locker:         core.ConversationLock(),
		Metrics:        core.Metrics(),
		MaxScreenshots: core.Cfg().Assistant.MaxScreenshots,
		ChatModel:      core.Srv().AI().ChatModel(),
	})
}

func NewAssistantLogicWithDeps(ctx context.Context, deps AssistantDeps) *AssistantLogic {
	if deps.MaxScreenshots <= 0 {
		deps.MaxScreenshots = DefaultMaxScreenshots
	}
	if deps.Locker == nil {
		deps.Locker = core.NewKeyLock()
	}
	return &AssistantLogic{
		ctx:            ctx,
		chat:           deps.Chat,
		transcribe:     deps.Transcribe,
		research:       deps.Research,
		capturer:       deps.Capturer,
		publisher:      deps.Publisher,
		messages:       deps.Messages,
		screenshots:    deps.Screenshots,
		knowledge:      NewKnowledgeLogicWithDeps(ctx, deps.Chat, deps.Users, deps.Facts),
		locker:         deps.Locker,
		metrics:        deps.Metrics,
		maxScreenshots: deps.MaxScreenshots,
		chatModel:      deps.ChatModel,
	}
}

// ResolveInput turns the inbound payload into utterance text. Audio wins over
// text when both are present. Neither present is a hard failure with no side
// effects.
func (l *AssistantLogic) ResolveInput(filename string, audio io.Reader, text string) (string, error) {
	if audio != nil {
		transcript, err := l.transcribe.Transcribe(l.ctx, filename, audio)
		if err != nil {
			return "", errors.New("AssistantLogic.ResolveInput.Transcribe", i18n.ERROR_ASSISTANT_AUDIO_DECODE, err).Code(http.StatusBadRequest)
		}
		return transcript, nil
	}
	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	return "", errors.New("AssistantLogic.ResolveInput.empty", i18n.ERROR_ASSISTANT_NO_INPUT, nil).Code(http.StatusBadRequest)
}

// AssistantRequest is one resolved utterance headed into the pipeline.
// Conversation may be nil when the caller never opened one, in which case the
// pipeline runs silently and returns its result without persistence or
// events.
type AssistantRequest struct {
	UserID       string
	Query        string
	Conversation *types.Conversation
	// PersistUserTurn is false when the opening turn was already stored at
	// conversation creation time.
	PersistUserTurn bool
}

type AssistantResult struct {
	Message                    string                    `json:"message"`
	IsAskingForMoreInformation bool                      `json:"isAskingForMoreInformation"`
	Screenshots                []types.ScreenshotWithURL `json:"screenshotsWithUrls,omitempty"`
}

// ProcessRequest runs the new-conversation flow: verify sufficiency, research,
// humanize, enrich, persist, emit. Failures from the research chain onward
// are reported through the room's error event and returned for the runner to
// log, never re-raised into the transport.
func (l *AssistantLogic) ProcessRequest(req AssistantRequest) (*AssistantResult, error) {
	notify := l.notifier(req.Conversation)

	if req.Conversation != nil {
		l.locker.Lock(req.Conversation.UUID)
		defer l.locker.Unlock(req.Conversation.UUID)
	}

	slog.Info("conversation pipeline started", slog.String("flow", "new"), slog.String("lang", utils.WhatLang(req.Query)))

	l.recordUserTurn(req, req.Query)
	notify.progress(progressProcessing)

	personalContext := l.knowledge.BuildContext(req.UserID)

	verifyResp, err := l.completeStage("verify", ai.BuildVerifyQueryPrompt(req.Query, personalContext))
	if err != nil {
		return l.abort(notify, "new", err)
	}
	l.recordAssistantTurn(req.Conversation, verifyResp, !ai.DecisionFromResponse(verifyResp), nil)

	if !ai.DecisionFromResponse(verifyResp) {
		notify.final(verifyResp, true, nil)
		return &AssistantResult{Message: verifyResp, IsAskingForMoreInformation: true}, nil
	}

	agentPrompt := ai.BuildAgentPrompt(req.Query, personalContext, time.Now())
	notify.progress(progressAnalyzing)

	answer, shots, err := l.researchAndCompose(notify, req.Conversation, agentPrompt, func(research string) string {
		return ai.BuildReadablePrompt(research, req.Query)
	})
	if err != nil {
		return l.abort(notify, "new", err)
	}

	l.recordAssistantTurn(req.Conversation, answer, false, shots)
	notify.final(answer, false, shots)

	return &AssistantResult{Message: answer, Screenshots: shots}, nil
}

// ProcessNewMessage runs the continue-conversation flow. The verify branch is
// skipped, the transform and humanize prompts fold in the prior turns, and
// knowledge extraction sees only the new utterance.
func (l *AssistantLogic) ProcessNewMessage(req AssistantRequest) (*AssistantResult, error) {
	if req.Conversation == nil {
		return nil, errors.New("AssistantLogic.ProcessNewMessage.noconversation", i18n.ERROR_CONVERSATION_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	notify := l.notifier(req.Conversation)

	l.locker.Lock(req.Conversation.UUID)
	defer l.locker.Unlock(req.Conversation.UUID)

	slog.Info("conversation pipeline started", slog.String("flow", "continue"), slog.String("lang", utils.WhatLang(req.Query)))

	history := l.loadHistory(req.Conversation.ID)

	l.recordUserTurn(req, req.Query)
	notify.progress(progressProcessing)

	personalContext := l.knowledge.BuildContext(req.UserID)

	agentPrompt := ai.BuildHistoryAgentPrompt(history, req.Query, personalContext)
	notify.progress(progressAnalyzing)

	answer, shots, err := l.researchAndCompose(notify, req.Conversation, agentPrompt, func(research string) string {
		return ai.BuildHistoryReadablePrompt(research, req.Query, history)
	})
	if err != nil {
		return l.abort(notify, "continue", err)
	}

	l.recordAssistantTurn(req.Conversation, answer, false, shots)
	notify.final(answer, false, shots)

	return &AssistantResult{Message: answer, Screenshots: shots}, nil
}

// researchAndCompose is the shared tail of both flows: delegate to research,
// humanize the result, capture screenshots. Any error aborts the chain.
func (l *AssistantLogic) researchAndCompose(notify roomNotifier, conversation *types.Conversation, agentPrompt string, readablePrompt func(research string) string) (string, []types.ScreenshotWithURL, error) {
	conversationUUID := ""
	if conversation != nil {
		conversationUUID = conversation.UUID
	}

	notify.action(types.AGENT_ACTION_SEARCHING, "Research started", nil)
	stop := l.stageTimer("research")
	result, err := l.research.Research(l.ctx, agentPrompt, conversationUUID)
	stop()
	if err != nil {
		return "", nil, errors.New("AssistantLogic.researchAndCompose.Research", i18n.ERROR_RESEARCH_UNAVAILABLE, err)
	}
	notify.action(types.AGENT_ACTION_COMPLETED, "Research finished", map[string]any{"sources": len(result.Sources)})

	notify.progress(progressPreparing)
	answer, err := l.completeStage("humanize", readablePrompt(result.FlattenResult()))
	if err != nil {
		return "", nil, err
	}

	notify.progress(progressImages)
	urls := screenshot.ExtractURLs(answer)
	shots := screenshot.CaptureWithFallback(l.ctx, l.capturer, urls, l.maxScreenshots)

	return answer, shots, nil
}

func (l *AssistantLogic) completeStage(stage, prompt string) (string, error) {
	stop := l.stageTimer(stage)
	defer stop()

	stopModel := l.modelTimer("chat")
	resp, err := l.chat.Complete(l.ctx, ai.PROMPT_BASE_INSTRUCTIONS, prompt)
	stopModel()
	if err != nil {
		if l.metrics != nil {
			l.metrics.ModelErrorInc("chat")
		}
		return "", errors.New("AssistantLogic.completeStage."+stage, i18n.ERROR_INTERNAL, err)
	}
	return resp, nil
}

func (l *AssistantLogic) modelTimer(target string) func() {
	if l.metrics == nil {
		return func() {}
	}
	timer := l.metrics.ModelRequestTimer(target)
	return func() { timer.ObserveDuration() }
}

// recordUserTurn persists the inbound utterance and feeds the knowledge
// extractor. Both are best-effort side effects.
func (l *AssistantLogic) recordUserTurn(req AssistantRequest, utterance string) {
	if req.Conversation != nil && req.PersistUserTurn {
		err := l.messages.Create(l.ctx, types.ConversationMessage{
			ID:             utils.GenUniqIDStr(),
			ConversationID: req.Conversation.ID,
			Role:           types.USER_ROLE,
			Content:        utterance,
		})
		if err != nil {
			slog.Error("failed to persist user turn", slog.String("conversation", req.Conversation.UUID), slog.String("error", err.Error()))
		}
	}

	if req.UserID == "" {
		return
	}
	eval, err := l.knowledge.Evaluate(utterance)
	if err != nil {
		slog.Error("knowledge evaluation failed", slog.String("user_id", req.UserID), slog.String("error", err.Error()))
		return
	}
	l.knowledge.InsertIfNew(req.UserID, eval)
}

// recordAssistantTurn persists an assistant message and its screenshots,
// best-effort.
func (l *AssistantLogic) recordAssistantTurn(conversation *types.Conversation, content string, askingForMore bool, shots []types.ScreenshotWithURL) {
	if conversation == nil {
		return
	}

	message := types.ConversationMessage{
		ID:                         utils.GenUniqIDStr(),
		ConversationID:             conversation.ID,
		Role:                       types.ASSISTANT_ROLE,
		Content:                    content,
		IsAskingForMoreInformation: askingForMore,
	}
	if err := l.messages.Create(l.ctx, message); err != nil {
		slog.Error("failed to persist assistant turn", slog.String("conversation", conversation.UUID), slog.String("error", err.Error()))
		return
	}

	if len(shots) == 0 {
		return
	}
	rows := make([]types.MessageScreenshot, 0, len(shots))
	for _, item := range shots {
		rows = append(rows, types.MessageScreenshot{
			ID:            utils.GenUniqIDStr(),
			MessageID:     message.ID,
			OriginalURL:   item.OriginalURL,
			ScreenshotURL: item.ScreenshotURL,
		})
	}
	if err := l.screenshots.BatchCreate(l.ctx, rows); err != nil {
		slog.Error("failed to persist screenshots", slog.String("conversation", conversation.UUID), slog.String("error", err.Error()))
	}
}

func (l *AssistantLogic) loadHistory(conversationID int64) []types.HistoryEntry {
	messages, err := l.messages.ListByConversation(l.ctx, conversationID)
	if err != nil {
		slog.Error("failed to load conversation history", slog.Int64("conversation_id", conversationID), slog.String("error", err.Error()))
		return nil
	}
	history := make([]types.HistoryEntry, 0, len(messages))
	for _, item := range messages {
		history = append(history, types.HistoryEntry{Role: item.Role, Content: item.Content})
	}
	return ai.TruncateHistory(history, l.chatModel, historyTokenBudget)
}

func (l *AssistantLogic) abort(notify roomNotifier, flow string, err error) (*AssistantResult, error) {
	if l.metrics != nil {
		l.metrics.PipelineErrorInc(flow)
	}
	notify.errorf(err)
	return nil, err
}

func (l *AssistantLogic) stageTimer(stage string) func() {
	if l.metrics == nil {
		return func() {}
	}
	timer := l.metrics.PipelineStageTimer(stage)
	return func() { timer.ObserveDuration() }
}

func (l *AssistantLogic) notifier(conversation *types.Conversation) roomNotifier {
	topic := ""
	if conversation != nil {
		topic = protocol.GenIMTopic(conversation.UUID)
	}
	return roomNotifier{topic: topic, publisher: l.publisher}
}

// roomNotifier scopes event emission to one conversation's room. An empty
// topic silently drops everything, which is how anonymous pipeline runs stay
// event-free. Emission failures are logged and never interrupt the pipeline.
type roomNotifier struct {
	topic     string
	publisher Publisher
}

func (n roomNotifier) progress(message string) {
	if n.topic == "" || n.publisher == nil {
		return
	}
	if err := n.publisher.PublishProgress(n.topic, message); err != nil {
		slog.Error("failed to publish progress event", slog.String("topic", n.topic), slog.String("error", err.Error()))
	}
}

func (n roomNotifier) final(message string, askingForMore bool, shots []types.ScreenshotWithURL) {
	if n.topic == "" || n.publisher == nil {
		return
	}
	if err := n.publisher.PublishFinal(n.topic, message, askingForMore, shots); err != nil {
		slog.Error("failed to publish final event", slog.String("topic", n.topic), slog.String("error", err.Error()))
	}
}

func (n roomNotifier) action(action, description string, metadata map[string]any) {
	if n.topic == "" || n.publisher == nil {
		return
	}
	if err := n.publisher.PublishAgentAction(n.topic, action, description, metadata); err != nil {
		slog.Error("failed to publish agent action", slog.String("topic", n.topic), slog.String("error", err.Error()))
	}
}

func (n roomNotifier) errorf(err error) {
	if n.topic == "" || n.publisher == nil {
		return
	}
	if perr := n.publisher.PublishPipelineError(n.topic, err.Error()); perr != nil {
		slog.Error("failed to publish pipeline error", slog.String("topic", n.topic), slog.String("error", perr.Error()))
	}
}
