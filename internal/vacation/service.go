// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package vacation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// Service coordinates catalog operations across the repositories.
type Service struct {
	countries CountryRepository
	vacations VacationRepository
	likes     LikeRepository
	logger    *slog.Logger
}

// NewService creates a Service.
func NewService(countries CountryRepository, vacations VacationRepository, likes LikeRepository, logger *slog.Logger) (*Service, error) {
	if countries == nil {
		return nil, oops.Code("VACATION_CONFIG_INVALID").Errorf("country repository is required")
	}
	if vacations == nil {
		return nil, oops.Code("VACATION_CONFIG_INVALID").Errorf("vacation repository is required")
	}
	if likes == nil {
		return nil, oops.Code("VACATION_CONFIG_INVALID").Errorf("like repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		countries: countries,
		vacations: vacations,
		likes:     likes,
		logger:    logger,
	}, nil
}

// CreateCountry adds a country to the catalog.
func (s *Service) CreateCountry(ctx context.Context, name, code string) (*Country, error) {
	country, err := NewCountry(name, code)
	if err != nil {
		return nil, err
	}
	if err := s.countries.Create(ctx, country); err != nil {
		if errors.Is(err, ErrDuplicateCode) {
			// Wrap the plain sentinel: oops surfaces the deepest code in
			// a chain, so wrapping the repository's coded error would
			// shadow this one.
			return nil, oops.Code("COUNTRY_DUPLICATE_CODE").
				With("code", country.Code).
				Wrap(ErrDuplicateCode)
		}
		return nil, oops.Code("COUNTRY_CREATE_FAILED").Wrap(err)
	}
	return country, nil
}

// ListCountries returns all countries ordered by name.
func (s *Service) ListCountries(ctx context.Context) ([]*Country, error) {
	countries, err := s.countries.List(ctx)
	if err != nil {
		return nil, oops.Code("COUNTRY_LIST_FAILED").Wrap(err)
	}
	return countries, nil
}

// CreateVacation adds a vacation. The referenced country must exist.
func (s *Service) CreateVacation(ctx context.Context, countryID int64, destination, description string, start, end time.Time, price float64, imageURL string) (*Vacation, error) {
	vacation, err := NewVacation(countryID, destination, description, start, end, price, imageURL)
	if err != nil {
		return nil, err
	}

	if _, err := s.countries.GetByID(ctx, countryID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("VACATION_COUNTRY_NOT_FOUND").
				With("country_id", countryID).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("VACATION_CREATE_FAILED").
			With("operation", "get country").
			Wrap(err)
	}

	if err := s.vacations.Create(ctx, vacation); err != nil {
		return nil, oops.Code("VACATION_CREATE_FAILED").Wrap(err)
	}

	s.logger.Info("vacation created", "vacation_id", vacation.ID, "destination", vacation.Destination)
	return vacation, nil
}

// GetVacation retrieves a vacation with its country and like count.
func (s *Service) GetVacation(ctx context.Context, id int64) (*Vacation, error) {
	vacation, err := s.vacations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("VACATION_NOT_FOUND").
				With("vacation_id", id).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("VACATION_GET_FAILED").Wrap(err)
	}
	return vacation, nil
}

// ListVacations returns vacations matching the criteria.
func (s *Service) ListVacations(ctx context.Context, criteria ListCriteria) ([]*Vacation, error) {
	switch criteria.Sort {
	case "", SortByStartDate, SortByPrice:
	default:
		return nil, oops.Code("VACATION_INVALID_SORT").
			With("sort", string(criteria.Sort)).
			Errorf("unsupported sort key %q", criteria.Sort)
	}

	vacations, err := s.vacations.List(ctx, criteria)
	if err != nil {
		return nil, oops.Code("VACATION_LIST_FAILED").Wrap(err)
	}
	return vacations, nil
}

// UpdateVacation replaces the mutable fields of an existing vacation.
func (s *Service) UpdateVacation(ctx context.Context, vacation *Vacation) error {
	if vacation == nil || vacation.ID <= 0 {
		return oops.Code("VACATION_INVALID").Errorf("vacation id is required")
	}
	if err := s.vacations.Update(ctx, vacation); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("VACATION_NOT_FOUND").
				With("vacation_id", vacation.ID).
				Wrap(ErrNotFound)
		}
		return oops.Code("VACATION_UPDATE_FAILED").Wrap(err)
	}
	return nil
}

// DeleteVacation removes a vacation and its likes.
func (s *Service) DeleteVacation(ctx context.Context, id int64) error {
	if err := s.vacations.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("VACATION_NOT_FOUND").
				With("vacation_id", id).
				Wrap(ErrNotFound)
		}
		return oops.Code("VACATION_DELETE_FAILED").Wrap(err)
	}
	s.logger.Info("vacation deleted", "vacation_id", id)
	return nil
}

// Like records that a user liked a vacation. Liking twice fails with
// VACATION_ALREADY_LIKED.
func (s *Service) Like(ctx context.Context, userID, vacationID int64) error {
	if err := s.likes.Create(ctx, userID, vacationID); err != nil {
		if errors.Is(err, ErrAlreadyLiked) {
			return oops.Code("VACATION_ALREADY_LIKED").
				With("user_id", userID).
				With("vacation_id", vacationID).
				Wrap(ErrAlreadyLiked)
		}
		return oops.Code("VACATION_LIKE_FAILED").Wrap(err)
	}
	return nil
}

// Unlike removes a user's like from a vacation.
func (s *Service) Unlike(ctx context.Context, userID, vacationID int64) error {
	if err := s.likes.Delete(ctx, userID, vacationID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("VACATION_LIKE_NOT_FOUND").
				With("user_id", userID).
				With("vacation_id", vacationID).
				Wrap(ErrNotFound)
		}
		return oops.Code("VACATION_UNLIKE_FAILED").Wrap(err)
	}
	return nil
}

// LikeCount returns the number of likes for a vacation.
func (s *Service) LikeCount(ctx context.Context, vacationID int64) (int64, error) {
	count, err := s.likes.CountForVacation(ctx, vacationID)
	if err != nil {
		return 0, oops.Code("VACATION_LIKE_COUNT_FAILED").Wrap(err)
	}
	return count, nil
}
