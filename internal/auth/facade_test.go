// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vacago/vacago/internal/auth"
	"github.com/vacago/vacago/pkg/errutil"
)

func newTestFacade(t *testing.T, repo *mockUserRepo) *auth.Facade {
	t.Helper()
	svc, _ := newTestService(t, repo)
	facade, err := auth.NewFacade(svc)
	require.NoError(t, err)
	return facade
}

func TestNewFacade_NilService(t *testing.T) {
	_, err := auth.NewFacade(nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "AUTH_CONFIG_INVALID")
}

func TestFacade_Register_ReturnsRecordAndToken(t *testing.T) {
	repo := &mockUserRepo{}
	facade := newTestFacade(t, repo)

	created := &auth.User{}
	repo.On("GetByEmail", mock.Anything, "ada@example.com").Return(nil, auth.ErrNotFound).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*auth.User)
			u.ID = 7
			*created = *u
		}).
		Return(nil)
	// The follow-up login re-reads the user it just created.
	repo.On("GetByEmail", mock.Anything, "ada@example.com").Return(created, nil)

	record, token, err := facade.Register(context.Background(), "Ada", "Lovelace", "ada@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.NotEmpty(t, token, "registration yields a logged-in session")

	assert.Equal(t, int64(7), record.ID)
	assert.Equal(t, "Ada", record.FirstName)
	assert.Equal(t, "ada@example.com", record.Email)
	assert.Equal(t, "user", record.Role)

	_, err = time.Parse(time.RFC3339, record.CreatedAt)
	assert.NoError(t, err, "created_at must be RFC3339")
}

func TestFacade_Login(t *testing.T) {
	repo := &mockUserRepo{}
	facade := newTestFacade(t, repo)

	user := testUser()
	user.PasswordHash = mustHash(t, "password123")
	repo.On("GetByEmail", mock.Anything, "ada@example.com").Return(user, nil)

	record, token, err := facade.Login(context.Background(), "ada@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, record.ID)
}

func TestFacade_VerifyToken_NilForInvalid(t *testing.T) {
	repo := &mockUserRepo{}
	facade := newTestFacade(t, repo)

	record, err := facade.VerifyToken(context.Background(), "garbage")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestFacade_RecordOmitsPasswordHash(t *testing.T) {
	user := testUser()
	user.PasswordHash = mustHash(t, "password123")

	repo := &mockUserRepo{}
	facade := newTestFacade(t, repo)
	repo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	record, _, err := facade.Login(context.Background(), user.Email, "password123")
	require.NoError(t, err)

	// UserRecord has no hash field at all; spot-check the JSON shape stays
	// free of secrets.
	assert.Equal(t, user.Email, record.Email)
	assert.NotContains(t, []string{record.FirstName, record.LastName, record.Email, record.Role, record.CreatedAt},
		user.PasswordHash)
}
