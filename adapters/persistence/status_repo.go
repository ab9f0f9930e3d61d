package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weihsuanlee/guidemap/internal/domain/tag"
	"github.com/weihsuanlee/guidemap/pkg/apperror"
	"github.com/weihsuanlee/guidemap/pkg/logger"
)

// latestStatusQuery orders by the server-assigned timestamp with the
// insertion sequence as tiebreak, so "latest" is total even for entries
// written in the same clock tick.
const latestStatusQuery = `
	SELECT id, tag_id, status_name, description, creator_id, upvote_count, created_at
	FROM tag_statuses
	WHERE tag_id = $1
	ORDER BY created_at DESC, seq DESC
`

type postgresStatusRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresStatusRepo(db *pgxpool.Pool, logger logger.Logger) tag.StatusRepository {
	return &postgresStatusRepo{db: db, logger: logger}
}

func scanStatus(row pgx.Row) (*tag.Status, error) {
	s := &tag.Status{}
	err := row.Scan(
		&s.ID,
		&s.TagID,
		&s.Name,
		&s.Description,
		&s.CreatorID,
		&s.UpvoteCount,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresStatusRepo) Append(ctx context.Context, s *tag.Status) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tags WHERE id = $1)`, s.TagID).Scan(&exists)
	if err != nil {
		return apperror.NewInternal("failed to check tag existence", err)
	}
	if !exists {
		return apperror.NewNotFound("tag", s.TagID.String())
	}

	query := `
		INSERT INTO tag_statuses (id, tag_id, status_name, description, creator_id, upvote_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err = r.db.QueryRow(ctx, query,
		s.ID, s.TagID, s.Name, s.Description, s.CreatorID, s.UpvoteCount,
	).Scan(&s.CreatedAt)
	if err != nil {
		return apperror.NewInternal("failed to append status", err)
	}
	return nil
}

func (r *postgresStatusRepo) Latest(ctx context.Context, tagID uuid.UUID) (*tag.Status, error) {
	s, err := scanStatus(r.db.QueryRow(ctx, latestStatusQuery+` LIMIT 1`, tagID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("status", tagID.String())
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to scan status row", err)
	}
	return s, nil
}

func (r *postgresStatusRepo) History(ctx context.Context, tagID uuid.UUID) ([]*tag.Status, error) {
	rows, err := r.db.Query(ctx, latestStatusQuery, tagID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query status history", err)
	}
	defer rows.Close()

	statuses := make([]*tag.Status, 0)
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan status row", err)
		}
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating status rows", err)
	}
	return statuses, nil
}
