package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weihsuanlee/guidemap/internal/domain/tag"
	"github.com/weihsuanlee/guidemap/pkg/apperror"
	"github.com/weihsuanlee/guidemap/pkg/logger"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const tagColumns = "id, creator_id, location_name, category, floor, description, latitude, longitude, street_view_info, created_at, updated_at"

type postgresTagRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresTagRepo(db *pgxpool.Pool, logger logger.Logger) tag.Repository {
	return &postgresTagRepo{db: db, logger: logger}
}

func scanTag(row pgx.Row) (*tag.Tag, error) {
	t := &tag.Tag{}
	var streetViewInfo sql.NullString

	err := row.Scan(
		&t.ID,
		&t.CreatorID,
		&t.LocationName,
		&t.Category,
		&t.Floor,
		&t.Description,
		&t.Coordinates.Latitude,
		&t.Coordinates.Longitude,
		&streetViewInfo,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if streetViewInfo.Valid {
		t.StreetViewInfo = &streetViewInfo.String
	}
	return t, nil
}

func (r *postgresTagRepo) Create(ctx context.Context, t *tag.Tag, initial *tag.Status) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin tag creation", err)
	}
	defer tx.Rollback(ctx)

	insertTag := `
		INSERT INTO tags (id, creator_id, location_name, category, floor, description, latitude, longitude, street_view_info, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.Exec(ctx, insertTag,
		t.ID, t.CreatorID, t.LocationName, t.Category, t.Floor, t.Description,
		t.Coordinates.Latitude, t.Coordinates.Longitude, t.StreetViewInfo,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to insert tag", err)
	}

	insertStatus := `
		INSERT INTO tag_statuses (id, tag_id, status_name, description, creator_id, upvote_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, insertStatus,
		initial.ID, initial.TagID, initial.Name, initial.Description, initial.CreatorID, initial.UpvoteCount,
	).Scan(&initial.CreatedAt)
	if err != nil {
		return apperror.NewInternal("failed to insert default status", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit tag creation", err)
	}
	return nil
}

func (r *postgresTagRepo) Update(ctx context.Context, t *tag.Tag) error {
	query := `
		UPDATE tags
		SET location_name = $2, category = $3, floor = $4, description = $5,
		    latitude = $6, longitude = $7, street_view_info = $8, updated_at = $9
		WHERE id = $1
	`
	cmd, err := r.db.Exec(ctx, query,
		t.ID, t.LocationName, t.Category, t.Floor, t.Description,
		t.Coordinates.Latitude, t.Coordinates.Longitude, t.StreetViewInfo, t.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to update tag", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperror.NewNotFound("tag", t.ID.String())
	}
	return nil
}

func (r *postgresTagRepo) Delete(ctx context.Context, id uuid.UUID, requesterID string) error {
	var creatorID string
	err := r.db.QueryRow(ctx, `SELECT creator_id FROM tags WHERE id = $1`, id).Scan(&creatorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound("tag", id.String())
	}
	if err != nil {
		return apperror.NewInternal("failed to look up tag creator", err)
	}
	if creatorID != requesterID {
		return apperror.NewPermissionDenied(fmt.Sprintf("only the creator may delete tag '%s'", id))
	}

	// statuses and voter records go with the tag via ON DELETE CASCADE
	if _, err := r.db.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id); err != nil {
		return apperror.NewInternal("failed to delete tag", err)
	}
	return nil
}

func (r *postgresTagRepo) FindByID(ctx context.Context, id uuid.UUID) (*tag.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags WHERE id = $1`
	t, err := scanTag(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("tag", id.String())
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to scan tag row", err)
	}
	return t, nil
}

func (r *postgresTagRepo) List(ctx context.Context, filter tag.ListFilter) ([]*tag.Tag, error) {
	builder := psql.Select(tagColumns).From("tags").OrderBy("created_at DESC")
	if filter.Category != nil {
		builder = builder.Where(sq.Eq{"category": *filter.Category})
	}
	if filter.CreatorID != "" {
		builder = builder.Where(sq.Eq{"creator_id": filter.CreatorID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build tag list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to list tags", err)
	}
	defer rows.Close()

	tags := make([]*tag.Tag, 0)
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan tag row", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating tag rows", err)
	}
	return tags, nil
}
