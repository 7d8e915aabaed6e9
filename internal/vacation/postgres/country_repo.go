// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

// Package postgres implements vacation catalog repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/vacago/vacago/internal/vacation"
)

// querier is the subset of pgxpool.Pool the repositories need. pgxmock's
// pool interface satisfies it, keeping SQL tests database-free.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CountryRepository implements vacation.CountryRepository using PostgreSQL.
type CountryRepository struct {
	db querier
}

// NewCountryRepository creates a new CountryRepository.
func NewCountryRepository(db querier) *CountryRepository {
	return &CountryRepository{db: db}
}

// Create stores a new country and assigns the generated ID.
func (r *CountryRepository) Create(ctx context.Context, country *vacation.Country) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO countries (name, code, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`,
		country.Name,
		country.Code,
		country.CreatedAt,
	).Scan(&country.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("COUNTRY_DUPLICATE_CODE").
				With("code", country.Code).
				Wrap(vacation.ErrDuplicateCode)
		}
		return oops.Code("COUNTRY_CREATE_FAILED").
			With("operation", "insert country").
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a country by ID.
func (r *CountryRepository) GetByID(ctx context.Context, id int64) (*vacation.Country, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, code, created_at
		FROM countries
		WHERE id = $1
	`, id)

	country, err := scanCountry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("COUNTRY_NOT_FOUND").
			With("id", id).
			Wrap(vacation.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("COUNTRY_GET_FAILED").
			With("operation", "get country by id").
			With("id", id).
			Wrap(err)
	}
	return country, nil
}

// GetByCode retrieves a country by its alpha-2 code.
func (r *CountryRepository) GetByCode(ctx context.Context, code string) (*vacation.Country, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, code, created_at
		FROM countries
		WHERE code = UPPER($1)
	`, code)

	country, err := scanCountry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("COUNTRY_NOT_FOUND").
			With("code", code).
			Wrap(vacation.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("COUNTRY_GET_FAILED").
			With("operation", "get country by code").
			Wrap(err)
	}
	return country, nil
}

// List returns all countries ordered by name.
func (r *CountryRepository) List(ctx context.Context) ([]*vacation.Country, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, code, created_at
		FROM countries
		ORDER BY name
	`)
	if err != nil {
		return nil, oops.Code("COUNTRY_LIST_FAILED").
			With("operation", "list countries").
			Wrap(err)
	}
	defer rows.Close()

	var countries []*vacation.Country
	for rows.Next() {
		country, err := scanCountry(rows)
		if err != nil {
			return nil, oops.Code("COUNTRY_LIST_FAILED").
				With("operation", "scan country").
				Wrap(err)
		}
		countries = append(countries, country)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("COUNTRY_LIST_FAILED").
			With("operation", "iterate countries").
			Wrap(err)
	}
	return countries, nil
}

// scanCountry scans a single row into a Country. Callers handle pgx.ErrNoRows.
func scanCountry(row pgx.Row) (*vacation.Country, error) {
	var c vacation.Country
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with context-specific info
	}
	return &c, nil
}

// Compile-time interface check.
var _ vacation.CountryRepository = (*CountryRepository)(nil)
