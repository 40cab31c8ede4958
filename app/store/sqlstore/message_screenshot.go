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
		provider.stores.MessageScreenshotStore = NewMessageScreenshotStore(provider)
	})
}

type MessageScreenshotStore struct {
	CommonFields
}

func NewMessageScreenshotStore(provider SqlProviderAchieve) *MessageScreenshotStore {
	repo := &MessageScreenshotStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_MESSAGE_SCREENSHOT)
	repo.SetAllColumns("id", "message_id", "original_url", "screenshot_url", "created_at")
	return repo
}

func (s *MessageScreenshotStore) BatchCreate(ctx context.Context, datas []types.MessageScreenshot) error {
	if len(datas) == 0 {
		return nil
	}

	query := sq.Insert(s.GetTable()).
		Columns("id", "message_id", "original_url", "screenshot_url", "created_at")

	now := time.Now().Unix()
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = now
		}
		query = query.Values(data.ID, data.MessageID, data.OriginalURL, data.ScreenshotURL, data.CreatedAt)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *MessageScreenshotStore) ListByMessages(ctx context.Context, messageIDs []string) ([]types.MessageScreenshot, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}

	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"message_id": messageIDs}).OrderBy("created_at ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.MessageScreenshot
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *MessageScreenshotStore) DeleteByMessages(ctx context.Context, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}

	query := sq.Delete(s.GetTable()).Where(sq.Eq{"message_id": messageIDs})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
