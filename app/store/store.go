package store

import (
	"context"

	"github.com/wayfinder-ai/wayfinder/pkg/sqlstore"
	"github.com/wayfinder-ai/wayfinder/pkg/types"
)

type ConversationStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Conversation) error
	GetByUUID(ctx context.Context, uuid string) (*types.Conversation, error)
	ListByUser(ctx context.Context, userID string, page, pageSize uint64) ([]types.Conversation, error)
	Total(ctx context.Context, userID string) (int64, error)
	ListCreatedBefore(ctx context.Context, before int64, limit uint64) ([]types.Conversation, error)
	Delete(ctx context.Context, id int64) error
}

type ConversationMessageStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.ConversationMessage) error
	ListByConversation(ctx context.Context, conversationID int64) ([]types.ConversationMessage, error)
	DeleteByConversation(ctx context.Context, conversationID int64) error
}

type MessageScreenshotStore interface {
	sqlstore.SqlCommons
	BatchCreate(ctx context.Context, datas []types.MessageScreenshot) error
	ListByMessages(ctx context.Context, messageIDs []string) ([]types.MessageScreenshot, error)
	DeleteByMessages(ctx context.Context, messageIDs []string) error
}

type KnowledgeFactStore interface {
	sqlstore.SqlCommons
	BatchCreate(ctx context.Context, datas []types.KnowledgeFact) error
	ListByUser(ctx context.Context, userID string) ([]types.KnowledgeFact, error)
	Delete(ctx context.Context, userID, id string) error
}

type UserStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.User) error
	GetUser(ctx context.Context, id string) (*types.User, error)
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	UpdateProfile(ctx context.Context, id string, profile types.UserProfile) error
	Total(ctx context.Context) (int64, error)
}

type AccessTokenStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.AccessToken) error
	GetAccessToken(ctx context.Context, token string) (*types.AccessToken, error)
	ClearUserTokens(ctx context.Context, userID string) error
}
