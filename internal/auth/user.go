// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Role is a closed enumeration of user roles. It influences nothing in the
// auth core beyond being embedded in issued tokens for downstream
// authorization checks.
type Role string

// Known roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts a stored string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", oops.Code("AUTH_INVALID_ROLE").
			With("role", s).
			Errorf("unknown role %q", s)
	}
	return r, nil
}

// Name length limits, matching the users table columns.
const (
	MaxNameLength  = 100
	MaxEmailLength = 254
)

// emailRegex is deliberately permissive: local part, @, domain with a dot.
// The mail server is the real authority on deliverability.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User represents a registered account.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// NormalizeEmail lowercases and trims an email address. All comparisons and
// storage go through this so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail validates an already-normalized email address.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLength {
		return oops.Code("AUTH_INVALID_EMAIL").
			With("max", MaxEmailLength).
			Errorf("email must be at most %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email address is not valid")
	}
	return nil
}

// NewUser creates a validated User with a normalized email and the default
// role. The password hash is set separately by the caller.
func NewUser(firstName, lastName, email string) (*User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" {
		return nil, oops.Code("AUTH_INVALID_NAME").Errorf("first name cannot be empty")
	}
	if lastName == "" {
		return nil, oops.Code("AUTH_INVALID_NAME").Errorf("last name cannot be empty")
	}
	if len(firstName) > MaxNameLength || len(lastName) > MaxNameLength {
		return nil, oops.Code("AUTH_INVALID_NAME").
			With("max", MaxNameLength).
			Errorf("name must be at most %d characters", MaxNameLength)
	}

	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	return &User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Role:      RoleUser,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// UserRepository manages user persistence. Implementations must serialize
// the unique-email check with a database constraint; concurrent Create
// calls for the same email must not both succeed.
type UserRepository interface {
	// Create stores a new user and assigns its ID.
	// Returns ErrDuplicateEmail (wrapped) if the email is taken.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email (case-insensitive).
	// Returns ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdatePassword replaces only the password hash for a user.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
