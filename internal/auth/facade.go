// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package auth

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// UserRecord is the transport-friendly projection of a User. It never
// carries the password hash.
type UserRecord struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// Facade adapts the Service's domain objects into plain records for a
// transport layer. Its methods are thin pass-throughs.
type Facade struct {
	svc *Service
}

// NewFacade creates a Facade.
func NewFacade(svc *Service) (*Facade, error) {
	if svc == nil {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("auth service is required")
	}
	return &Facade{svc: svc}, nil
}

// Register creates the user and immediately logs them in, returning the
// record together with a session token.
func (f *Facade) Register(ctx context.Context, firstName, lastName, email, password string) (*UserRecord, string, error) {
	if _, err := f.svc.Register(ctx, firstName, lastName, email, password); err != nil {
		return nil, "", err
	}
	return f.Login(ctx, email, password)
}

// Login authenticates and returns the user record plus a session token.
func (f *Facade) Login(ctx context.Context, email, password string) (*UserRecord, string, error) {
	user, token, err := f.svc.Login(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	return recordFromUser(user), token, nil
}

// VerifyToken returns the token's user record, or nil if it does not verify.
func (f *Facade) VerifyToken(ctx context.Context, token string) (*UserRecord, error) {
	user, err := f.svc.VerifyToken(ctx, token)
	if err != nil || user == nil {
		return nil, err
	}
	return recordFromUser(user), nil
}

// ChangePassword forwards to Service.ChangePassword.
func (f *Facade) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	return f.svc.ChangePassword(ctx, userID, oldPassword, newPassword)
}

// RequestPasswordReset forwards to Service.RequestPasswordReset.
func (f *Facade) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return f.svc.RequestPasswordReset(ctx, email)
}

// ResetPassword forwards to Service.ResetPassword.
func (f *Facade) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return f.svc.ResetPassword(ctx, resetToken, newPassword)
}

// RefreshToken forwards to Service.RefreshToken.
func (f *Facade) RefreshToken(ctx context.Context, token string) (string, error) {
	return f.svc.RefreshToken(ctx, token)
}

func recordFromUser(u *User) *UserRecord {
	return &UserRecord{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
