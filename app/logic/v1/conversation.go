package v1

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/wayfinder-ai/wayfinder/app/core"
	"github.com/wayfinder-ai/wayfinder/pkg/errors"
	"github.com/wayfinder-ai/wayfinder/pkg/i18n"
	"github.com/wayfinder-ai/wayfinder/pkg/types"
	"github.com/wayfinder-ai/wayfinder/pkg/utils"
)

// topic is a display label only, clipped from the opening utterance
const conversationTopicLimit = 64

type ConversationLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewConversationLogic(ctx context.Context, core *core.Core) *ConversationLogic {
	return &ConversationLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// CreateConversationWithFirstMessage opens a conversation around the first
// user utterance and persists that utterance as its opening turn. The caller
// may supply its own uuid so clients can subscribe before the pipeline runs.
func (l *ConversationLogic) CreateConversationWithFirstMessage(uuid, firstMessage string) (*types.Conversation, *types.ConversationMessage, error) {
	user := l.GetUserInfo().User
	if uuid == "" {
		uuid = utils.GenConversationUUID()
	}

	conversation := types.Conversation{
		ID:     utils.GenUniqID(),
		UUID:   uuid,
		UserID: user,
		Topic:  clipTopic(firstMessage),
	}

	message := types.ConversationMessage{
		ID:             utils.GenUniqIDStr(),
		ConversationID: conversation.ID,
		Role:           types.USER_ROLE,
		Content:        firstMessage,
	}

	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().ConversationStore().Create(ctx, conversation); err != nil {
			return errors.New("ConversationLogic.CreateConversationWithFirstMessage.ConversationStore.Create", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().ConversationMessageStore().Create(ctx, message); err != nil {
			return errors.New("ConversationLogic.CreateConversationWithFirstMessage.ConversationMessageStore.Create", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &conversation, &message, nil
}

func clipTopic(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= conversationTopicLimit {
		return s
	}
	return string(runes[:conversationTopicLimit])
}

func (l *ConversationLogic) ListUserConversations(page, pageSize uint64) ([]types.Conversation, int64, error) {
	user := l.GetUserInfo().User

	list, err := l.core.Store().ConversationStore().ListByUser(l.ctx, user, page, pageSize)
	if err != nil && err != sql.ErrNoRows {
		return nil, 0, errors.New("ConversationLogic.ListUserConversations.ConversationStore.ListByUser", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().ConversationStore().Total(l.ctx, user)
	if err != nil {
		return nil, 0, errors.New("ConversationLogic.ListUserConversations.ConversationStore.Total", i18n.ERROR_INTERNAL, err)
	}

	return list, total, nil
}

// CheckUserConversation loads a conversation by uuid and verifies ownership.
func (l *ConversationLogic) CheckUserConversation(uuid string) (*types.Conversation, error) {
	conversation, err := l.core.Store().ConversationStore().GetByUUID(l.ctx, uuid)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("ConversationLogic.CheckUserConversation.ConversationStore.GetByUUID", i18n.ERROR_INTERNAL, err)
	}
	if conversation == nil {
		return nil, errors.New("ConversationLogic.CheckUserConversation.nil", i18n.ERROR_CONVERSATION_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	if conversation.UserID != l.GetUserInfo().User {
		return nil, errors.New("ConversationLogic.CheckUserConversation.unauth", i18n.ERROR_CONVERSATION_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	return conversation, nil
}

// GetConversationWithMessages returns the conversation with its full ordered
// transcript, screenshots attached to the assistant turns that produced them.
func (l *ConversationLogic) GetConversationWithMessages(uuid string) (*types.ConversationDetail, error) {
	conversation, err := l.CheckUserConversation(uuid)
	if err != nil {
		return nil, err
	}

	messages, err := l.core.Store().ConversationMessageStore().ListByConversation(l.ctx, conversation.ID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("ConversationLogic.GetConversationWithMessages.ConversationMessageStore.ListByConversation", i18n.ERROR_INTERNAL, err)
	}

	messageIDs := make([]string, 0, len(messages))
	for _, item := range messages {
		messageIDs = append(messageIDs, item.ID)
	}

	screenshots, err := l.core.Store().MessageScreenshotStore().ListByMessages(l.ctx, messageIDs)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("ConversationLogic.GetConversationWithMessages.MessageScreenshotStore.ListByMessages", i18n.ERROR_INTERNAL, err)
	}

	byMessage := make(map[string][]types.MessageScreenshot, len(screenshots))
	for _, item := range screenshots {
		byMessage[item.MessageID] = append(byMessage[item.MessageID], item)
	}

	detail := &types.ConversationDetail{
		Conversation: *conversation,
		Messages:     make([]types.ConversationMessageDetail, 0, len(messages)),
	}
	for _, item := range messages {
		detail.Messages = append(detail.Messages, types.ConversationMessageDetail{
			ConversationMessage: item,
			Screenshots:         byMessage[item.ID],
		})
	}

	return detail, nil
}
