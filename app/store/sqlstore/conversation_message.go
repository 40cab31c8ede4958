package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/wayfinder-ai/wayfinder/pkg/register"
	"github.com/wayfinder-ai/wayfinder/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.ConversationMessageStore = NewConversationMessageStore(provider)
	})
}

type ConversationMessageStore struct {
	CommonFields
}

func NewConversationMessageStore(provider SqlProviderAchieve) *ConversationMessageStore {
	repo := &ConversationMessageStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CONVERSATION_MESSAGE)
	repo.SetAllColumns("id", "conversation_id", "role", "content", "is_asking_for_more_information", "created_at")
	return repo
}

func (s *ConversationMessageStore) Create(ctx context.Context, data types.ConversationMessage) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns("id", "conversation_id", "role", "content", "is_asking_for_more_information", "created_at").
		Values(data.ID, data.ConversationID, data.Role, data.Content, data.IsAskingForMoreInformation, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// ListByConversation returns messages in creation order. Replay and prompt
// construction both depend on this ordering.
func (s *ConversationMessageStore) ListByConversation(ctx context.Context, conversationID int64) ([]types.ConversationMessage, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"conversation_id": conversationID}).OrderBy("created_at ASC", "id ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.ConversationMessage
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ConversationMessageStore) DeleteByConversation(ctx context.Context, conversationID int64) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"conversation_id": conversationID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
