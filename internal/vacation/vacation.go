// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

// Package vacation implements the vacation catalog: countries, vacation
// listings and per-user likes.
package vacation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Sentinel repository errors.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyLiked is returned when a user likes a vacation twice. The
	// unique (user_id, vacation_id) constraint is the authoritative guard.
	ErrAlreadyLiked = errors.New("vacation already liked")

	// ErrDuplicateCode is returned when a country code is already taken.
	ErrDuplicateCode = errors.New("country code already exists")
)

// Country represents a destination country.
type Country struct {
	ID        int64
	Name      string
	Code      string // ISO 3166-1 alpha-2, uppercase
	CreatedAt time.Time
}

// NewCountry creates a validated Country.
func NewCountry(name, code string) (*Country, error) {
	name = strings.TrimSpace(name)
	code = strings.ToUpper(strings.TrimSpace(code))
	if name == "" {
		return nil, oops.Code("COUNTRY_INVALID").Errorf("country name cannot be empty")
	}
	if len(code) != 2 {
		return nil, oops.Code("COUNTRY_INVALID").
			With("code", code).
			Errorf("country code must be 2 letters")
	}
	return &Country{
		Name:      name,
		Code:      code,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Vacation represents a bookable vacation listing.
type Vacation struct {
	ID          int64
	CountryID   int64
	Country     *Country // populated on reads, nil on writes
	Destination string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Price       float64
	ImageURL    string
	CreatedAt   time.Time
	Likes       int64 // like count, populated on reads
}

// NewVacation creates a validated Vacation.
func NewVacation(countryID int64, destination, description string, start, end time.Time, price float64, imageURL string) (*Vacation, error) {
	destination = strings.TrimSpace(destination)
	if countryID <= 0 {
		return nil, oops.Code("VACATION_INVALID").Errorf("country id is required")
	}
	if destination == "" {
		return nil, oops.Code("VACATION_INVALID").Errorf("destination cannot be empty")
	}
	if end.Before(start) {
		return nil, oops.Code("VACATION_INVALID").
			With("start_date", start).
			With("end_date", end).
			Errorf("end date cannot precede start date")
	}
	if price < 0 {
		return nil, oops.Code("VACATION_INVALID").
			With("price", price).
			Errorf("price cannot be negative")
	}
	return &Vacation{
		CountryID:   countryID,
		Destination: destination,
		Description: strings.TrimSpace(description),
		StartDate:   start,
		EndDate:     end,
		Price:       price,
		ImageURL:    imageURL,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// SortBy enumerates the supported listing sort keys.
type SortBy string

// Supported sort keys.
const (
	SortByStartDate SortBy = "start_date"
	SortByPrice     SortBy = "price"
)

// ListCriteria narrows and orders a vacation listing. Zero values mean
// "no constraint".
type ListCriteria struct {
	Search        string // case-insensitive destination substring
	CountryID     int64
	LikedByUserID int64
	Sort          SortBy
	Descending    bool
}

// Like records that a user liked a vacation.
type Like struct {
	ID         int64
	UserID     int64
	VacationID int64
	CreatedAt  time.Time
}

// CountryRepository manages country persistence.
type CountryRepository interface {
	// Create stores a new country and assigns its ID.
	// Returns ErrDuplicateCode (wrapped) if the code is taken.
	Create(ctx context.Context, country *Country) error

	// GetByID retrieves a country by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (*Country, error)

	// GetByCode retrieves a country by its alpha-2 code.
	GetByCode(ctx context.Context, code string) (*Country, error)

	// List returns all countries ordered by name.
	List(ctx context.Context) ([]*Country, error)
}

// VacationRepository manages vacation persistence.
type VacationRepository interface {
	// Create stores a new vacation and assigns its ID.
	Create(ctx context.Context, vacation *Vacation) error

	// GetByID retrieves a vacation with its country and like count.
	GetByID(ctx context.Context, id int64) (*Vacation, error)

	// List returns vacations matching the criteria.
	List(ctx context.Context, criteria ListCriteria) ([]*Vacation, error)

	// Update replaces the mutable fields of an existing vacation.
	Update(ctx context.Context, vacation *Vacation) error

	// Delete removes a vacation and, via cascade, its likes.
	Delete(ctx context.Context, id int64) error
}

// LikeRepository manages like persistence.
type LikeRepository interface {
	// Create records a like. Returns ErrAlreadyLiked (wrapped) when the
	// user already liked the vacation.
	Create(ctx context.Context, userID, vacationID int64) error

	// Delete removes a like. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, userID, vacationID int64) error

	// CountForVacation returns the number of likes for a vacation.
	CountForVacation(ctx context.Context, vacationID int64) (int64, error)
}
