// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacago/vacago/internal/vacation"
)

func TestLikeRepository_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful like",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO likes`).
					WithArgs(int64(9), int64(10), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "already liked",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO likes`).
					WithArgs(int64(9), int64(10), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantErr: vacation.ErrAlreadyLiked,
		},
		{
			name: "missing user or vacation",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO likes`).
					WithArgs(int64(9), int64(10), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})
			},
			wantErr: vacation.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewLikeRepository(mock)
			err = repo.Create(context.Background(), 9, 10)

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

func TestLikeRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"successful unlike", 1, nil},
		{"like missing", 0, vacation.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			mock.ExpectExec(`DELETE FROM likes`).
				WithArgs(int64(9), int64(10)).
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			repo := NewLikeRepository(mock)
			err = repo.Delete(context.Background(), 9, 10)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLikeRepository_CountForVacation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM likes`).
		WithArgs(int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))

	repo := NewLikeRepository(mock)
	count, err := repo.CountForVacation(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
