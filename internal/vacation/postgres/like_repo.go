// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/vacago/vacago/internal/vacation"
)

// LikeRepository implements vacation.LikeRepository using PostgreSQL.
type LikeRepository struct {
	db querier
}

// NewLikeRepository creates a new LikeRepository.
func NewLikeRepository(db querier) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create records a like. The unique (user_id, vacation_id) constraint is
// the authoritative double-like guard; foreign key violations surface when
// the user or vacation does not exist.
func (r *LikeRepository) Create(ctx context.Context, userID, vacationID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO likes (user_id, vacation_id, created_at)
		VALUES ($1, $2, $3)
	`, userID, vacationID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return oops.Code("LIKE_DUPLICATE").
					With("user_id", userID).
					With("vacation_id", vacationID).
					Wrap(vacation.ErrAlreadyLiked)
			case pgerrcode.ForeignKeyViolation:
				return oops.Code("LIKE_TARGET_NOT_FOUND").
					With("user_id", userID).
					With("vacation_id", vacationID).
					Wrap(vacation.ErrNotFound)
			}
		}
		return oops.Code("LIKE_CREATE_FAILED").
			With("operation", "insert like").
			Wrap(err)
	}
	return nil
}

// Delete removes a like.
func (r *LikeRepository) Delete(ctx context.Context, userID, vacationID int64) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM likes WHERE user_id = $1 AND vacation_id = $2
	`, userID, vacationID)
	if err != nil {
		return oops.Code("LIKE_DELETE_FAILED").
			With("operation", "delete like").
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("LIKE_NOT_FOUND").
			With("user_id", userID).
			With("vacation_id", vacationID).
			Wrap(vacation.ErrNotFound)
	}
	return nil
}

// CountForVacation returns the number of likes for a vacation.
func (r *LikeRepository) CountForVacation(ctx context.Context, vacationID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM likes WHERE vacation_id = $1
	`, vacationID).Scan(&count)
	if err != nil {
		return 0, oops.Code("LIKE_COUNT_FAILED").
			With("operation", "count likes").
			With("vacation_id", vacationID).
			Wrap(err)
	}
	return count, nil
}

// Compile-time interface check.
var _ vacation.LikeRepository = (*LikeRepository)(nil)
