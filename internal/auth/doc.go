// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

// Package auth implements the authentication core of the vacation backend.
//
// # Domain Types
//
// User instances should be created through NewUser, which normalizes the
// email address and validates required fields. Direct struct initialization
// bypasses validation and may create invalid state.
//
// # Services
//
// Service orchestrates registration, login, token verification, password
// changes and the two-step password-reset flow. It consumes a
// UserRepository for persistence, a PasswordHasher for credential storage
// and a TokenCodec for signed session and reset tokens. Facade adapts the
// service's domain objects into plain records for a transport layer.
//
// Session tokens are stateless: validity is determined solely by signature
// and expiry at verification time. Rotating the signing secret invalidates
// every outstanding token; no revocation list exists.
package auth
