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

	"github.com/vacago/vacago/internal/vacation"
)

var countryColumns = []string{"id", "name", "code", "created_at"}

func TestCountryRepository_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface, c *vacation.Country)
		wantErr   error
	}{
		{
			name: "successful insert",
			setupMock: func(mock pgxmock.PgxPoolIface, c *vacation.Country) {
				mock.ExpectQuery(`INSERT INTO countries`).
					WithArgs(c.Name, c.Code, c.CreatedAt).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
			},
		},
		{
			name: "duplicate code",
			setupMock: func(mock pgxmock.PgxPoolIface, c *vacation.Country) {
				mock.ExpectQuery(`INSERT INTO countries`).
					WithArgs(c.Name, c.Code, c.CreatedAt).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantErr: vacation.ErrDuplicateCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			country, err := vacation.NewCountry("Greece", "gr")
			require.NoError(t, err)
			tt.setupMock(mock, country)

			repo := NewCountryRepository(mock)
			err = repo.Create(context.Background(), country)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(3), country.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestCountryRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM countries`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	repo := NewCountryRepository(mock)
	_, err = repo.GetByID(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, vacation.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountryRepository_GetByCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	rows := pgxmock.NewRows(countryColumns).
		AddRow(int64(3), "Greece", "GR", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery(`SELECT (.+) FROM countries\s+WHERE code = UPPER\(\$1\)`).
		WithArgs("gr").
		WillReturnRows(rows)

	repo := NewCountryRepository(mock)
	country, err := repo.GetByCode(context.Background(), "gr")
	require.NoError(t, err)
	assert.Equal(t, "GR", country.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountryRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	rows := pgxmock.NewRows(countryColumns).
		AddRow(int64(1), "Greece", "GR", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)).
		AddRow(int64(2), "Italy", "IT", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery(`SELECT (.+) FROM countries\s+ORDER BY name`).
		WillReturnRows(rows)

	repo := NewCountryRepository(mock)
	countries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, countries, 2)
	assert.Equal(t, "Greece", countries[0].Name)
	assert.Equal(t, "IT", countries[1].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
