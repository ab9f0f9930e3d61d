package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/weihsuanlee/guidemap/internal/domain/tag"
	"github.com/weihsuanlee/guidemap/pkg/apperror"
	"github.com/weihsuanlee/guidemap/pkg/logger"
)

const defaultMaxVoteAttempts = 5

type postgresVoteRepo struct {
	db          *pgxpool.Pool
	maxAttempts int
	logger      logger.Logger
}

func NewPostgresVoteRepo(db *pgxpool.Pool, maxAttempts int, logger logger.Logger) tag.VoteRepository {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxVoteAttempts
	}
	return &postgresVoteRepo{db: db, maxAttempts: maxAttempts, logger: logger}
}

// ApplyVote runs the vote read-modify-write as one serializable transaction
// and retries the whole unit when the database aborts it on a write
// conflict. The counter and the voter record only ever change together.
func (r *postgresVoteRepo) ApplyVote(ctx context.Context, tagID uuid.UUID, voterID string, action tag.VoteAction) (*tag.VoteResult, error) {
	if !action.Valid() {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("unknown vote action '%s'", action), nil)
	}

	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		result, err := r.applyVoteOnce(ctx, tagID, voterID, action)
		if err == nil {
			return result, nil
		}
		if !isSerializationFailure(err) {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				return nil, err
			}
			return nil, apperror.NewInternal("vote transaction failed", err)
		}

		lastErr = err
		r.logger.Debug("vote transaction conflicted, retrying",
			zap.String("tag_id", tagID.String()),
			zap.String("voter_id", voterID),
			zap.Int("attempt", attempt),
		)
	}
	details := fmt.Sprintf("vote on tag '%s' still conflicting after %d attempts", tagID, r.maxAttempts)
	return nil, apperror.NewContention(details, lastErr)
}

func (r *postgresVoteRepo) applyVoteOnce(ctx context.Context, tagID uuid.UUID, voterID string, action tag.VoteAction) (*tag.VoteResult, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, fmt.Errorf("begin vote transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		statusID uuid.UUID
		count    *int
	)
	latestQuery := `
		SELECT id, upvote_count FROM tag_statuses
		WHERE tag_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT 1
	`
	err = tx.QueryRow(ctx, latestQuery, tagID).Scan(&statusID, &count)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("status", tagID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("read latest status: %w", err)
	}
	if count == nil {
		return nil, apperror.NewVotingNotSupported(tagID.String())
	}

	var hasVoted bool
	existsQuery := `SELECT EXISTS(SELECT 1 FROM status_voters WHERE status_id = $1 AND voter_id = $2)`
	if err := tx.QueryRow(ctx, existsQuery, statusID, voterID).Scan(&hasVoted); err != nil {
		return nil, fmt.Errorf("read voter record: %w", err)
	}

	delta, err := tag.ResolveVote(hasVoted, action)
	if err != nil {
		switch {
		case errors.Is(err, tag.ErrAlreadyVoted):
			return nil, apperror.NewAlreadyVoted(statusID.String())
		case errors.Is(err, tag.ErrNotVotedYet):
			return nil, apperror.NewNotVotedYet(statusID.String())
		default:
			return nil, apperror.NewInvalidInput("vote could not be resolved", err)
		}
	}

	var newCount int
	updateQuery := `UPDATE tag_statuses SET upvote_count = upvote_count + $2 WHERE id = $1 RETURNING upvote_count`
	if err := tx.QueryRow(ctx, updateQuery, statusID, delta).Scan(&newCount); err != nil {
		return nil, fmt.Errorf("update upvote counter: %w", err)
	}

	if delta > 0 {
		_, err = tx.Exec(ctx, `INSERT INTO status_voters (status_id, voter_id) VALUES ($1, $2)`, statusID, voterID)
	} else {
		_, err = tx.Exec(ctx, `DELETE FROM status_voters WHERE status_id = $1 AND voter_id = $2`, statusID, voterID)
	}
	if err != nil {
		// a racing transaction for the same voter can land the insert
		// first, surfacing the primary key violation before the
		// serialization check does
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperror.NewAlreadyVoted(statusID.String())
		}
		return nil, fmt.Errorf("write voter record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit vote transaction: %w", err)
	}

	return &tag.VoteResult{
		TagID:       tagID,
		StatusID:    statusID,
		UpvoteCount: newCount,
		HasUpvoted:  delta > 0,
	}, nil
}

func (r *postgresVoteRepo) HasVoted(ctx context.Context, statusID uuid.UUID, voterID string) (bool, error) {
	var hasVoted bool
	query := `SELECT EXISTS(SELECT 1 FROM status_voters WHERE status_id = $1 AND voter_id = $2)`
	if err := r.db.QueryRow(ctx, query, statusID, voterID).Scan(&hasVoted); err != nil {
		return false, apperror.NewInternal("failed to check voter record", err)
	}
	return hasVoted, nil
}

// 40001 serialization_failure, 40P01 deadlock_detected
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
