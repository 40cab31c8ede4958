package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wayfinder-ai/wayfinder/app/core"
	"github.com/wayfinder-ai/wayfinder/app/store"
	"github.com/wayfinder-ai/wayfinder/pkg/ai"
	"github.com/wayfinder-ai/wayfinder/pkg/errors"
	"github.com/wayfinder-ai/wayfinder/pkg/i18n"
	"github.com/wayfinder-ai/wayfinder/pkg/types"
	"github.com/wayfinder-ai/wayfinder/pkg/utils"
)

// KnowledgeLogic maintains the durable per-user fact base. Extraction and
// dedup are both best-effort side channels of the conversation pipeline,
// failures here must never surface to the user request.
type KnowledgeLogic struct {
	ctx   context.Context
	chat  ai.ChatAI
	users store.UserStore
	facts store.KnowledgeFactStore
}

func NewKnowledgeLogic(ctx context.Context, core *core.Core) *KnowledgeLogic {
	return &KnowledgeLogic{
		ctx:   ctx,
		chat:  core.Srv().AI(),
		users: core.Store().UserStore(),
		facts: core.Store().KnowledgeFactStore(),
	}
}

// NewKnowledgeLogicWithDeps wires the logic against explicit dependencies.
func NewKnowledgeLogicWithDeps(ctx context.Context, chat ai.ChatAI, users store.UserStore, facts store.KnowledgeFactStore) *KnowledgeLogic {
	return &KnowledgeLogic{
		ctx:   ctx,
		chat:  chat,
		users: users,
		facts: facts,
	}
}

// Evaluate classifies a single utterance for durable personal information.
// A malformed model response is a hard error, callers decide whether the
// result is worth keeping.
func (l *KnowledgeLogic) Evaluate(utterance string) (*types.KnowledgeEvaluation, error) {
	resp, err := l.chat.Complete(l.ctx, ai.PROMPT_KNOWLEDGE_EVALUATION, utterance)
	if err != nil {
		return nil, errors.New("KnowledgeLogic.Evaluate.Complete", i18n.ERROR_INTERNAL, err)
	}

	var eval types.KnowledgeEvaluation
	if err = ai.DecodeJSONResponse(resp, &eval); err != nil {
		return nil, errors.New("KnowledgeLogic.Evaluate.DecodeJSONResponse", i18n.ERROR_INTERNAL, err)
	}
	return &eval, nil
}

// InsertIfNew runs the dedup pass against the user's existing facts and
// inserts whatever survives it. The clean content may carry several facts
// separated by semicolons, each becomes its own row sharing the evaluation's
// confidence score. All failures are logged and swallowed.
func (l *KnowledgeLogic) InsertIfNew(userID string, eval *types.KnowledgeEvaluation) {
	if eval == nil || !eval.IsRelevant || userID == "" || strings.TrimSpace(eval.Content) == "" {
		return
	}

	existing, err := l.facts.ListByUser(l.ctx, userID)
	if err != nil {
		slog.Error("failed to list user facts for dedup", slog.String("user_id", userID), slog.String("error", err.Error()))
		return
	}

	existingContents := make([]string, 0, len(existing))
	for _, item := range existing {
		existingContents = append(existingContents, item.Content)
	}

	resp, err := l.chat.Complete(l.ctx, ai.PROMPT_BASE_INSTRUCTIONS, ai.BuildKnowledgeDedupPrompt(existingContents, eval.Content))
	if err != nil {
		slog.Error("fact dedup completion failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		return
	}

	var decision types.KnowledgeDedupDecision
	if err = ai.DecodeJSONResponse(resp, &decision); err != nil {
		slog.Error("fact dedup response not decodable", slog.String("user_id", userID), slog.String("error", err.Error()))
		return
	}

	if !decision.ShouldInsert || strings.TrimSpace(decision.CleanContent) == "" {
		return
	}

	var rows []types.KnowledgeFact
	for _, part := range strings.Split(decision.CleanContent, ";") {
		content := strings.TrimSpace(part)
		if content == "" {
			continue
		}
		rows = append(rows, types.KnowledgeFact{
			ID:              utils.GenUniqIDStr(),
			UserID:          userID,
			Content:         content,
			ConfidenceScore: eval.ConfidenceScore,
		})
	}

	if err = l.facts.BatchCreate(l.ctx, rows); err != nil {
		slog.Error("failed to store user facts", slog.String("user_id", userID), slog.String("error", err.Error()))
	}
}

// BuildContext renders the personal context block injected into prompts.
// Anonymous requests get an empty block, store failures degrade to whatever
// could still be loaded.
func (l *KnowledgeLogic) BuildContext(userID string) string {
	if userID == "" {
		return ""
	}

	var b strings.Builder

	user, err := l.users.GetUser(l.ctx, userID)
	if err != nil && err != sql.ErrNoRows {
		slog.Error("failed to load user profile for context", slog.String("user_id", userID), slog.String("error", err.Error()))
	}
	if user != nil {
		b.WriteString("User profile:\n")
		b.WriteString("- City: " + valueOrUnknown(user.City) + "\n")
		b.WriteString("- Postal code: " + valueOrUnknown(user.PostalCode) + "\n")
		b.WriteString("- Country: " + valueOrUnknown(user.Country) + "\n")
	}

	facts, err := l.facts.ListByUser(l.ctx, userID)
	if err != nil {
		slog.Error("failed to load user facts for context", slog.String("user_id", userID), slog.String("error", err.Error()))
	}
	if len(facts) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Known facts about the user:\n")
		for _, item := range facts {
			b.WriteString("- " + item.Content + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func valueOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

func (l *KnowledgeLogic) ListUserFacts(userID string) ([]types.KnowledgeFact, error) {
	facts, err := l.facts.ListByUser(l.ctx, userID)
	if err != nil {
		return nil, errors.New("KnowledgeLogic.ListUserFacts.ListByUser", i18n.ERROR_INTERNAL, err)
	}
	return facts, nil
}

func (l *KnowledgeLogic) DeleteFact(userID, id string) error {
	if err := l.facts.Delete(l.ctx, userID, id); err != nil {
		return errors.New("KnowledgeLogic.DeleteFact.Delete", i18n.ERROR_INTERNAL, err).Code(http.StatusInternalServerError)
	}
	return nil
}
