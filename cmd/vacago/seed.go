// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package main

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vacago/vacago/internal/auth"
	authpg "github.com/vacago/vacago/internal/auth/postgres"
	"github.com/vacago/vacago/internal/store"
	"github.com/vacago/vacago/internal/vacation"
	vacationpg "github.com/vacago/vacago/internal/vacation/postgres"
)

//go:embed seeds.yaml
var seedsYAML []byte

// Default timeout for the seed command.
const defaultSeedTimeout = 30 * time.Second

// seedFixtures mirrors the embedded seeds.yaml document.
type seedFixtures struct {
	Countries []struct {
		Name string `yaml:"name"`
		Code string `yaml:"code"`
	} `yaml:"countries"`
	Vacations []struct {
		CountryCode string  `yaml:"country_code"`
		Destination string  `yaml:"destination"`
		Description string  `yaml:"description"`
		StartDate   string  `yaml:"start_date"`
		EndDate     string  `yaml:"end_date"`
		Price       float64 `yaml:"price"`
		ImageURL    string  `yaml:"image_url"`
	} `yaml:"vacations"`
}

// seedConfig holds configuration for the seed subcommand.
type seedConfig struct {
	timeout       time.Duration
	adminEmail    string
	adminPassword string
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the catalog with initial data",
		Long: `Apply migrations and load the built-in countries and vacations,
then create an admin account. This command is idempotent: rerunning it
skips entities that already exist.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().StringVar(&cfg.adminEmail, "admin-email", "admin@vacago.local", "email for the bootstrap admin account")
	cmd.Flags().StringVar(&cfg.adminPassword, "admin-password", "", "password for the bootstrap admin account (required on first run)")

	return cmd
}

func runSeed(cmd *cobra.Command, cfg *seedConfig) error {
	appCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var fixtures seedFixtures
	if err := yaml.Unmarshal(seedsYAML, &fixtures); err != nil {
		return oops.Code("SEED_FAILED").With("operation", "parse seed fixtures").Wrap(err)
	}

	// cmd.Context() respects SIGINT/SIGTERM.
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Running migrations...")
	migrator, err := store.NewMigrator(appCfg.DatabaseURL)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "create migrator").Wrap(err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return oops.Code("SEED_FAILED").With("operation", "run migrations").Wrap(err)
	}
	_ = migrator.Close()

	cmd.Println("Connecting to database...")
	db, err := store.Connect(ctx, appCfg.DatabaseURL)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()

	countryRepo := vacationpg.NewCountryRepository(db.Pool())
	vacationRepo := vacationpg.NewVacationRepository(db.Pool())

	codes := make(map[string]int64, len(fixtures.Countries))
	for _, c := range fixtures.Countries {
		country, err := seedCountry(ctx, countryRepo, c.Name, c.Code)
		if err != nil {
			return err
		}
		codes[country.Code] = country.ID
	}

	for _, v := range fixtures.Vacations {
		countryID, ok := codes[v.CountryCode]
		if !ok {
			return oops.Code("SEED_FAILED").
				With("country_code", v.CountryCode).
				Errorf("vacation %q references unknown country", v.Destination)
		}
		if err := seedVacation(ctx, vacationRepo, countryID, v.Destination, v.Description, v.StartDate, v.EndDate, v.Price, v.ImageURL); err != nil {
			return err
		}
	}

	if err := seedAdmin(ctx, db, cfg); err != nil {
		return err
	}

	cmd.Println("Seeding complete!")
	return nil
}

// seedCountry creates a country, or resolves the existing one when the
// code is already taken.
func seedCountry(ctx context.Context, repo *vacationpg.CountryRepository, name, code string) (*vacation.Country, error) {
	country, err := vacation.NewCountry(name, code)
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, country); err != nil {
		if errors.Is(err, vacation.ErrDuplicateCode) {
			existing, getErr := repo.GetByCode(ctx, country.Code)
			if getErr != nil {
				return nil, oops.Code("SEED_FAILED").
					With("operation", "resolve existing country").
					With("code", country.Code).
					Wrap(getErr)
			}
			slog.Info("country already seeded", "code", existing.Code)
			return existing, nil
		}
		return nil, oops.Code("SEED_FAILED").
			With("operation", "create country").
			With("code", country.Code).
			Wrap(err)
	}
	slog.Info("country created", "code", country.Code, "name", country.Name)
	return country, nil
}

// seedVacation creates a vacation unless one with the same destination
// already exists in the country.
func seedVacation(ctx context.Context, repo *vacationpg.VacationRepository, countryID int64, destination, description, startDate, endDate string, price float64, imageURL string) error {
	start, err := time.Parse(time.DateOnly, startDate)
	if err != nil {
		return oops.Code("SEED_FAILED").
			With("destination", destination).
			With("start_date", startDate).
			Wrap(err)
	}
	end, err := time.Parse(time.DateOnly, endDate)
	if err != nil {
		return oops.Code("SEED_FAILED").
			With("destination", destination).
			With("end_date", endDate).
			Wrap(err)
	}

	existing, err := repo.List(ctx, vacation.ListCriteria{Search: destination, CountryID: countryID})
	if err != nil {
		return oops.Code("SEED_FAILED").
			With("operation", "check existing vacation").
			With("destination", destination).
			Wrap(err)
	}
	for _, e := range existing {
		if e.Destination == destination {
			slog.Info("vacation already seeded", "destination", destination)
			return nil
		}
	}

	v, err := vacation.NewVacation(countryID, destination, description, start, end, price, imageURL)
	if err != nil {
		return err
	}
	if err := repo.Create(ctx, v); err != nil {
		return oops.Code("SEED_FAILED").
			With("operation", "create vacation").
			With("destination", destination).
			Wrap(err)
	}
	slog.Info("vacation created", "destination", destination, "vacation_id", v.ID)
	return nil
}

// seedAdmin creates the bootstrap admin account through the auth hasher
// and repository so the stored hash matches what login expects.
func seedAdmin(ctx context.Context, db *store.DB, cfg *seedConfig) error {
	userRepo := authpg.NewUserRepository(db.Pool())

	if _, err := userRepo.GetByEmail(ctx, cfg.adminEmail); err == nil {
		slog.Info("admin account already seeded", "email", cfg.adminEmail)
		return nil
	} else if !errors.Is(err, auth.ErrNotFound) {
		return oops.Code("SEED_FAILED").
			With("operation", "check existing admin").
			Wrap(err)
	}

	if cfg.adminPassword == "" {
		return oops.Code("SEED_FAILED").Errorf("--admin-password is required to create the admin account")
	}

	admin, err := auth.NewUser("Vacago", "Admin", cfg.adminEmail)
	if err != nil {
		return err
	}
	admin.Role = auth.RoleAdmin

	hash, err := auth.NewArgon2idHasher().Hash(cfg.adminPassword)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "hash admin password").Wrap(err)
	}
	admin.PasswordHash = hash

	if err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			slog.Info("admin account already seeded", "email", cfg.adminEmail)
			return nil
		}
		return oops.Code("SEED_FAILED").With("operation", "create admin").Wrap(err)
	}

	slog.Info("admin account created", "email", cfg.adminEmail, "user_id", admin.ID)
	return nil
}
