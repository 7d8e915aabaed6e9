// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Token lifetimes. The reset lifetime is a deliberate constant: the reset
// capability should have a minimal exposure window and is not configurable.
const (
	DefaultSessionTTL = 24 * time.Hour
	ResetTokenTTL     = time.Hour
)

// InsecureDefaultSecret is the fallback signing secret for local
// development. The config layer warns loudly when it is in use; it must
// never reach production.
const InsecureDefaultSecret = "vacago-dev-secret-do-not-use"

// tokenTypeReset discriminates reset tokens from session tokens.
const tokenTypeReset = "reset"

// Sentinel token failures. All of them unwrap to ErrInvalidToken so callers
// can treat decode failures uniformly while telemetry still distinguishes
// the oops codes.
var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = fmt.Errorf("token expired: %w", ErrInvalidToken)
	ErrTokenMalformed    = fmt.Errorf("token malformed: %w", ErrInvalidToken)
	ErrTokenBadSignature = fmt.Errorf("token signature invalid: %w", ErrInvalidToken)
)

// Claims are the statements embedded in a signed token. Session tokens
// carry subject, email and role; reset tokens additionally carry the reset
// type marker and a fingerprint of the password hash they were issued
// against, so a successful reset invalidates all earlier reset tokens.
type Claims struct {
	Email               string `json:"email"`
	Role                Role   `json:"role,omitempty"`
	TokenType           string `json:"typ,omitempty"`
	PasswordFingerprint string `json:"pwf,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim into a user ID.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, oops.Code("TOKEN_INVALID_SUBJECT").
			With("subject", c.Subject).
			Wrap(ErrTokenMalformed)
	}
	return id, nil
}

// IsReset reports whether the claims carry the reset-type marker.
func (c *Claims) IsReset() bool {
	return c.TokenType == tokenTypeReset
}

// TokenCodec signs and verifies compact claims-bearing tokens (HS256 JWTs)
// with a single server-wide secret loaded once at startup. Rotating the
// secret invalidates every outstanding token. Expiry comparison uses UTC
// wall-clock time; clock skew is not compensated.
type TokenCodec struct {
	secret     []byte
	sessionTTL time.Duration
}

// NewTokenCodec creates a TokenCodec. A non-positive sessionTTL falls back
// to DefaultSessionTTL.
func NewTokenCodec(secret string, sessionTTL time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("signing secret cannot be empty")
	}
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &TokenCodec{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
	}, nil
}

// SessionTTL returns the configured session token lifetime.
func (c *TokenCodec) SessionTTL() time.Duration {
	return c.sessionTTL
}

// IssueSession signs a session token for the user.
func (c *TokenCodec) IssueSession(user *User) (string, error) {
	now := time.Now().UTC()
	return c.sign(&Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.sessionTTL)),
		},
	})
}

// IssueRefreshed signs a session token carrying a unique jti, so the new
// token's bytes differ from the one it replaces even within the same
// clock tick.
func (c *TokenCodec) IssueRefreshed(user *User) (string, error) {
	now := time.Now().UTC()
	return c.sign(&Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.sessionTTL)),
			ID:        ulid.Make().String(),
		},
	})
}

// IssueReset signs a short-lived reset token bound to the user's current
// password hash.
func (c *TokenCodec) IssueReset(user *User) (string, error) {
	now := time.Now().UTC()
	return c.sign(&Claims{
		Email:               user.Email,
		TokenType:           tokenTypeReset,
		PasswordFingerprint: PasswordFingerprint(user.PasswordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ResetTokenTTL)),
		},
	})
}

func (c *TokenCodec) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Decode verifies the token's signature and expiry and returns its claims.
// It never panics on attacker-controlled input; every failure is typed and
// unwraps to ErrInvalidToken.
func (c *TokenCodec) Decode(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, oops.Code("TOKEN_EXPIRED").Wrap(ErrTokenExpired)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, oops.Code("TOKEN_SIGNATURE_INVALID").Wrap(ErrTokenBadSignature)
		default:
			return nil, oops.Code("TOKEN_MALFORMED").Wrap(ErrTokenMalformed)
		}
	}
	if !token.Valid {
		return nil, oops.Code("TOKEN_MALFORMED").Wrap(ErrTokenMalformed)
	}

	return claims, nil
}

// PasswordFingerprint derives a short non-reversible fingerprint of a
// password hash for embedding in reset tokens. Changing the password
// changes the fingerprint, which invalidates outstanding reset tokens.
func PasswordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:6])
}
