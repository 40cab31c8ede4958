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
		provider.stores.KnowledgeFactStore = NewKnowledgeFactStore(provider)
	})
}

type KnowledgeFactStore struct {
	CommonFields
}

func NewKnowledgeFactStore(provider SqlProviderAchieve) *KnowledgeFactStore {
	repo := &KnowledgeFactStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_KNOWLEDGE_FACT)
	repo.SetAllColumns("id", "user_id", "content", "confidence_score", "created_at")
	return repo
}

func (s *KnowledgeFactStore) BatchCreate(ctx context.Context, datas []types.KnowledgeFact) error {
	if len(datas) == 0 {
		return nil
	}

	query := sq.Insert(s.GetTable()).
		Columns("id", "user_id", "content", "confidence_score", "created_at")

	now := time.Now().Unix()
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = now
		}
		query = query.Values(data.ID, data.UserID, data.Content, data.ConfidenceScore, data.CreatedAt)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *KnowledgeFactStore) ListByUser(ctx context.Context, userID string) ([]types.KnowledgeFact, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"user_id": userID}).OrderBy("created_at ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.KnowledgeFact
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *KnowledgeFactStore) Delete(ctx context.Context, userID, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"user_id": userID, "id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
