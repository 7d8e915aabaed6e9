// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacago/vacago/internal/auth"
)

var userColumns = []string{"id", "first_name", "last_name", "email", "password_hash", "role", "created_at"}

func sampleUser() *auth.User {
	return &auth.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		Role:         auth.RoleUser,
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface, u *auth.User)
		wantErr   error
		wantID    int64
	}{
		{
			name: "successful insert",
			setupMock: func(mock pgxmock.PgxPoolIface, u *auth.User) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs(u.FirstName, u.LastName, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
			},
			wantID: 7,
		},
		{
			name: "duplicate email",
			setupMock: func(mock pgxmock.PgxPoolIface, u *auth.User) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs(u.FirstName, u.LastName, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantErr: auth.ErrDuplicateEmail,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface, u *auth.User) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs(u.FirstName, u.LastName, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			user := sampleUser()
			tt.setupMock(mock, user)

			repo := NewUserRepository(mock)
			err = repo.Create(context.Background(), user)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, auth.ErrDuplicateEmail) {
					assert.True(t, errors.Is(err, auth.ErrDuplicateEmail))
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, user.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(userColumns).
					AddRow(int64(7), "Ada", "Lovelace", "ada@example.com", "hash", "user",
						time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
				mock.ExpectQuery(`SELECT (.+) FROM users`).
					WithArgs(int64(7)).
					WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT (.+) FROM users`).
					WithArgs(int64(7)).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: auth.ErrNotFound,
		},
		{
			name: "unknown role in row",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(userColumns).
					AddRow(int64(7), "Ada", "Lovelace", "ada@example.com", "hash", "superuser",
						time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
				mock.ExpectQuery(`SELECT (.+) FROM users`).
					WithArgs(int64(7)).
					WillReturnRows(rows)
			},
			wantErr: errors.New("unknown role"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewUserRepository(mock)
			user, err := repo.GetByID(context.Background(), 7)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, auth.ErrNotFound) {
					assert.True(t, errors.Is(err, auth.ErrNotFound))
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(7), user.ID)
				assert.Equal(t, "ada@example.com", user.Email)
				assert.Equal(t, auth.RoleUser, user.Role)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	rows := pgxmock.NewRows(userColumns).
		AddRow(int64(7), "Ada", "Lovelace", "ada@example.com", "hash", "admin",
			time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	mock.ExpectQuery(`SELECT (.+) FROM users\s+WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("Ada@Example.com").
		WillReturnRows(rows)

	repo := NewUserRepository(mock)
	user, err := repo.GetByEmail(context.Background(), "Ada@Example.com")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	repo := NewUserRepository(mock)
	_, err = repo.GetByEmail(context.Background(), "ghost@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, auth.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful update",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users SET password_hash`).
					WithArgs(int64(7), "newhash").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "user missing",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users SET password_hash`).
					WithArgs(int64(7), "newhash").
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: auth.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewUserRepository(mock)
			err = repo.UpdatePassword(context.Background(), 7, "newhash")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}
