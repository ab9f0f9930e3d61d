package persistence

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weihsuanlee/guidemap/internal/domain/activity"
	"github.com/weihsuanlee/guidemap/pkg/apperror"
	"github.com/weihsuanlee/guidemap/pkg/logger"
)

type postgresActivityRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresActivityRepo(db *pgxpool.Pool, logger logger.Logger) activity.Repository {
	return &postgresActivityRepo{db: db, logger: logger}
}

func (r *postgresActivityRepo) Record(ctx context.Context, e *activity.Entry) error {
	query := `
		INSERT INTO activity_logs (id, actor_id, action, tag_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.Exec(ctx, query, e.ID, e.ActorID, e.Action, e.TagID, e.CreatedAt); err != nil {
		return apperror.NewInternal("failed to record activity entry", err)
	}
	return nil
}
