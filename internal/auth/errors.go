// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a user with the same email already
// exists. The unique index on LOWER(email) is the authoritative guard; the
// service's own existence check is a convenience.
var ErrDuplicateEmail = errors.New("email already registered")
