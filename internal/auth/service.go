// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// Service provides the authentication operations of the backend. All
// operations are synchronous calls into the UserRepository; the service
// holds no mutable state beyond its injected, read-only dependencies.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens *TokenCodec
	logger *slog.Logger
}

// NewService creates a Service using the default logger.
func NewService(users UserRepository, hasher PasswordHasher, tokens *TokenCodec) (*Service, error) {
	return NewServiceWithLogger(users, hasher, tokens, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, hasher PasswordHasher, tokens *TokenCodec, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("token codec is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("logger is required")
	}
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}, nil
}

// dummyPasswordHash is used when a user doesn't exist to keep login
// response time consistent and prevent email enumeration via timing.
// This is NOT a real credential - it's a fake hash that will never match.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates a new user with the default role. It does not issue a
// token; callers that want a logged-in session follow up with Login.
// Fails with code AUTH_DUPLICATE_EMAIL if the email is taken
// (case-insensitive).
func (s *Service) Register(ctx context.Context, firstName, lastName, email, password string) (*User, error) {
	user, err := NewUser(firstName, lastName, email)
	if err != nil {
		return nil, err
	}

	// Convenience pre-check. The unique index enforced by the repository
	// is the true guard against concurrent registration races.
	_, err = s.users.GetByEmail(ctx, user.Email)
	switch {
	case err == nil:
		return nil, oops.Code("AUTH_DUPLICATE_EMAIL").
			Wrap(ErrDuplicateEmail)
	case !errors.Is(err, ErrNotFound):
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			// Wrap the plain sentinel: oops surfaces the deepest code in
			// a chain, and the repository's own code must not shadow this
			// one.
			return nil, oops.Code("AUTH_DUPLICATE_EMAIL").Wrap(ErrDuplicateEmail)
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login authenticates a user and issues a session token. "No such user"
// and "wrong password" produce the identical AUTH_INVALID_CREDENTIALS
// failure; a dummy verification keeps the two paths close in timing.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, lookupErr := s.users.GetByEmail(ctx, NormalizeEmail(email))

	var targetHash string
	var userExists bool

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
		targetHash = dummyPasswordHash
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil && userExists {
		// A malformed stored hash is an infrastructure problem, but from
		// the caller's perspective the credentials did not verify.
		s.logger.Warn("stored password hash failed verification", "user_id", user.ID)
	}

	if !userExists || !valid {
		return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").
			Errorf("invalid email or password")
	}

	// Transparently upgrade legacy bcrypt hashes to argon2id.
	if s.hasher.NeedsUpgrade(user.PasswordHash) {
		if newHash, hashErr := s.hasher.Hash(password); hashErr == nil {
			if upErr := s.users.UpdatePassword(ctx, user.ID, newHash); upErr == nil {
				user.PasswordHash = newHash
			}
		}
	}

	token, err := s.tokens.IssueSession(user)
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue session token").
			Wrap(err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// VerifyToken decodes a session token and re-resolves its user. It returns
// (nil, nil) for any token-level failure: bad signature, expiry, unknown
// subject, or claims that no longer match the current record (a role or
// email changed since issuance must not keep granting stale authority).
// Infrastructure errors from the store propagate unchanged.
func (s *Service) VerifyToken(ctx context.Context, token string) (*User, error) {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		s.logger.Debug("token rejected", "reason", oopsCode(err))
		return nil, nil
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, oops.Code("AUTH_VERIFY_FAILED").
			With("operation", "get user by id").
			Wrap(err)
	}

	if user.Email != claims.Email || user.Role != claims.Role {
		s.logger.Debug("token claims stale", "user_id", user.ID)
		return nil, nil
	}

	return user, nil
}

// ChangePassword verifies the current password and persists a new hash.
// An unknown user and a wrong current password produce the same
// AUTH_INCORRECT_PASSWORD failure.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("AUTH_INCORRECT_PASSWORD").
				Errorf("current password is incorrect")
		}
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "get user by id").
			Wrap(err)
	}

	valid, err := s.hasher.Verify(oldPassword, user.PasswordHash)
	if err != nil || !valid {
		return oops.Code("AUTH_INCORRECT_PASSWORD").
			Errorf("current password is incorrect")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "update password").
			Wrap(err)
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// RequestPasswordReset issues a short-lived reset token for the email's
// owner. If no such user exists it returns ("", nil) so callers cannot
// distinguish the two outcomes (no email enumeration).
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", oops.Code("AUTH_RESET_REQUEST_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	token, err := s.tokens.IssueReset(user)
	if err != nil {
		return "", oops.Code("AUTH_RESET_REQUEST_FAILED").
			With("operation", "issue reset token").
			Wrap(err)
	}

	s.logger.Info("password reset requested", "user_id", user.ID)
	return token, nil
}

// ResetPassword sets a new password using a reset token. Decode failures,
// a missing reset-type marker, a stale embedded email, or a fingerprint
// from a password that has since changed all fail with
// AUTH_INVALID_RESET_TOKEN.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.tokens.Decode(resetToken)
	if err != nil {
		return oops.Code("AUTH_INVALID_RESET_TOKEN").
			With("reason", oopsCode(err)).
			Wrap(ErrInvalidToken)
	}
	if !claims.IsReset() {
		return oops.Code("AUTH_INVALID_RESET_TOKEN").
			Errorf("token is not a reset token")
	}

	id, err := claims.UserID()
	if err != nil {
		return oops.Code("AUTH_INVALID_RESET_TOKEN").Wrap(ErrInvalidToken)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("AUTH_INVALID_RESET_TOKEN").Wrap(ErrInvalidToken)
		}
		return oops.Code("AUTH_RESET_FAILED").
			With("operation", "get user by id").
			Wrap(err)
	}

	if user.Email != claims.Email {
		return oops.Code("AUTH_INVALID_RESET_TOKEN").
			Errorf("token email no longer matches")
	}
	if claims.PasswordFingerprint != "" &&
		claims.PasswordFingerprint != PasswordFingerprint(user.PasswordHash) {
		// The password changed after this token was issued; the token's
		// single-use window is over.
		return oops.Code("AUTH_INVALID_RESET_TOKEN").
			Errorf("token was issued for a previous password")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return oops.Code("AUTH_RESET_FAILED").
			With("operation", "update password").
			Wrap(err)
	}

	s.logger.Info("password reset", "user_id", user.ID)
	return nil
}

// RefreshToken exchanges a valid session token for a fresh one with a new
// issued-at, expiry and jti. Fails with AUTH_INVALID_TOKEN if the input
// does not verify.
func (s *Service) RefreshToken(ctx context.Context, token string) (string, error) {
	user, err := s.VerifyToken(ctx, token)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", oops.Code("AUTH_INVALID_TOKEN").Wrap(ErrInvalidToken)
	}

	refreshed, err := s.tokens.IssueRefreshed(user)
	if err != nil {
		return "", oops.Code("AUTH_REFRESH_FAILED").
			With("operation", "issue refreshed token").
			Wrap(err)
	}
	return refreshed, nil
}

// oopsCode extracts the oops error code for log attributes, never the
// token or error text itself. Code() reports the deepest code in the
// chain as an untyped value.
func oopsCode(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		if code, ok := oopsErr.Code().(string); ok && code != "" {
			return code
		}
	}
	return "UNKNOWN"
}
