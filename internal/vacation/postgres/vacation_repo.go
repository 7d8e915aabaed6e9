// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/vacago/vacago/internal/vacation"
)

// selectVacation is the base query shared by GetByID and List. Every
// vacation is read with its country joined in and its like count
// aggregated, so callers never need a second round trip.
const selectVacation = `
	SELECT v.id, v.country_id, v.destination, v.description,
	       v.start_date, v.end_date, v.price, v.image_url, v.created_at,
	       c.id, c.name, c.code, c.created_at,
	       COUNT(l.id) AS likes
	FROM vacations v
	JOIN countries c ON c.id = v.country_id
	LEFT JOIN likes l ON l.vacation_id = v.id`

const groupVacation = `
	GROUP BY v.id, c.id`

// VacationRepository implements vacation.VacationRepository using PostgreSQL.
type VacationRepository struct {
	db querier
}

// NewVacationRepository creates a new VacationRepository.
func NewVacationRepository(db querier) *VacationRepository {
	return &VacationRepository{db: db}
}

// Create stores a new vacation and assigns the generated ID.
func (r *VacationRepository) Create(ctx context.Context, v *vacation.Vacation) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO vacations (country_id, destination, description, start_date, end_date, price, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		v.CountryID,
		v.Destination,
		v.Description,
		v.StartDate,
		v.EndDate,
		v.Price,
		v.ImageURL,
		v.CreatedAt,
	).Scan(&v.ID)
	if err != nil {
		return oops.Code("VACATION_CREATE_FAILED").
			With("operation", "insert vacation").
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a vacation with its country and like count.
func (r *VacationRepository) GetByID(ctx context.Context, id int64) (*vacation.Vacation, error) {
	row := r.db.QueryRow(ctx, selectVacation+`
	WHERE v.id = $1`+groupVacation, id)

	v, err := scanVacation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("VACATION_NOT_FOUND").
			With("id", id).
			Wrap(vacation.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("VACATION_GET_FAILED").
			With("operation", "get vacation by id").
			With("id", id).
			Wrap(err)
	}
	return v, nil
}

// List returns vacations matching the criteria, ordered by the requested
// sort key. The default order is start date ascending.
func (r *VacationRepository) List(ctx context.Context, criteria vacation.ListCriteria) ([]*vacation.Vacation, error) {
	query, args := buildListQuery(criteria)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, oops.Code("VACATION_LIST_FAILED").
			With("operation", "list vacations").
			Wrap(err)
	}
	defer rows.Close()

	var vacations []*vacation.Vacation
	for rows.Next() {
		v, err := scanVacation(rows)
		if err != nil {
			return nil, oops.Code("VACATION_LIST_FAILED").
				With("operation", "scan vacation").
				Wrap(err)
		}
		vacations = append(vacations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("VACATION_LIST_FAILED").
			With("operation", "iterate vacations").
			Wrap(err)
	}
	return vacations, nil
}

// Update replaces the mutable fields of an existing vacation.
func (r *VacationRepository) Update(ctx context.Context, v *vacation.Vacation) error {
	result, err := r.db.Exec(ctx, `
		UPDATE vacations
		SET country_id = $2, destination = $3, description = $4,
		    start_date = $5, end_date = $6, price = $7, image_url = $8
		WHERE id = $1
	`,
		v.ID,
		v.CountryID,
		v.Destination,
		v.Description,
		v.StartDate,
		v.EndDate,
		v.Price,
		v.ImageURL,
	)
	if err != nil {
		return oops.Code("VACATION_UPDATE_FAILED").
			With("operation", "update vacation").
			With("id", v.ID).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("VACATION_NOT_FOUND").
			With("id", v.ID).
			Wrap(vacation.ErrNotFound)
	}
	return nil
}

// Delete removes a vacation. Likes cascade at the schema level.
func (r *VacationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM vacations WHERE id = $1
	`, id)
	if err != nil {
		return oops.Code("VACATION_DELETE_FAILED").
			With("operation", "delete vacation").
			With("id", id).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("VACATION_NOT_FOUND").
			With("id", id).
			Wrap(vacation.ErrNotFound)
	}
	return nil
}

// buildListQuery assembles the filtered listing query. Filters append
// positional placeholders; sort keys map to fixed column names so user
// input never reaches the ORDER BY clause directly.
func buildListQuery(criteria vacation.ListCriteria) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if criteria.Search != "" {
		args = append(args, "%"+criteria.Search+"%")
		conditions = append(conditions, fmt.Sprintf("v.destination ILIKE $%d", len(args)))
	}
	if criteria.CountryID > 0 {
		args = append(args, criteria.CountryID)
		conditions = append(conditions, fmt.Sprintf("v.country_id = $%d", len(args)))
	}
	if criteria.LikedByUserID > 0 {
		args = append(args, criteria.LikedByUserID)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM likes ul WHERE ul.vacation_id = v.id AND ul.user_id = $%d)", len(args)))
	}

	query := selectVacation
	if len(conditions) > 0 {
		query += "\n\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += groupVacation

	column := "v.start_date"
	if criteria.Sort == vacation.SortByPrice {
		column = "v.price"
	}
	direction := "ASC"
	if criteria.Descending {
		direction = "DESC"
	}
	query += fmt.Sprintf("\n\tORDER BY %s %s, v.id", column, direction)

	return query, args
}

// scanVacation scans a joined row into a Vacation with its Country.
// Callers handle pgx.ErrNoRows.
func scanVacation(row pgx.Row) (*vacation.Vacation, error) {
	var (
		v vacation.Vacation
		c vacation.Country
	)
	err := row.Scan(
		&v.ID, &v.CountryID, &v.Destination, &v.Description,
		&v.StartDate, &v.EndDate, &v.Price, &v.ImageURL, &v.CreatedAt,
		&c.ID, &c.Name, &c.Code, &c.CreatedAt,
		&v.Likes,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with context-specific info
	}
	v.Country = &c
	return &v, nil
}

// Compile-time interface check.
var _ vacation.VacationRepository = (*VacationRepository)(nil)
