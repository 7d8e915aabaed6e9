// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

// Package postgres implements auth repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/vacago/vacago/internal/auth"
)

// querier is the subset of pgxpool.Pool the repository needs. pgxmock's
// pool interface satisfies it, keeping SQL tests database-free.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements auth.UserRepository using PostgreSQL.
type UserRepository struct {
	db querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db querier) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a new user and assigns the generated ID. The unique index
// on LOWER(email) is the authoritative duplicate-email guard.
func (r *UserRepository) Create(ctx context.Context, user *auth.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_DUPLICATE_EMAIL").
				With("email", user.Email).
				Wrap(auth.ErrDuplicateEmail)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`, id)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ID_FAILED").
			With("operation", "get user by id").
			With("id", id).
			Wrap(err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email (case-insensitive).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, password_hash, role, created_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_EMAIL_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}
	return user, nil
}

// UpdatePassword replaces only the password hash for a user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2 WHERE id = $1
	`, id, passwordHash)
	if err != nil {
		return oops.Code("USER_UPDATE_PASSWORD_FAILED").
			With("operation", "update password").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", id).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// scanUser scans a single row into a User. Callers handle pgx.ErrNoRows.
func scanUser(row pgx.Row) (*auth.User, error) {
	var (
		id           int64
		firstName    string
		lastName     string
		email        string
		passwordHash string
		roleStr      string
		createdAt    time.Time
	)

	err := row.Scan(&id, &firstName, &lastName, &email, &passwordHash, &roleStr, &createdAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to wrap with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("USER_SCAN_FAILED").
			With("operation", "scan user").
			Wrap(err)
	}

	role, err := auth.ParseRole(roleStr)
	if err != nil {
		return nil, err
	}

	return &auth.User{
		ID:           id,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    createdAt,
	}, nil
}

// Compile-time interface check.
var _ auth.UserRepository = (*UserRepository)(nil)
