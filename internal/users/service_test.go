// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package users_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/librarium/internal/platform/apperr"
	"github.com/taibuivan/librarium/internal/platform/jsonfile"
	"github.com/taibuivan/librarium/internal/platform/sec"
	"github.com/taibuivan/librarium/internal/users"
)

func newTestService(t *testing.T) *users.Service {
	t.Helper()

	db, err := jsonfile.Open(t.TempDir())
	require.NoError(t, err)

	repo, err := users.NewRepository(db)
	require.NoError(t, err)

	tokens, err := sec.NewTokenService("test-secret", "librarium.test")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return users.NewService(repo, tokens, db, logger)
}

/*
TestSignup verifies registration, the STUDENT default role, and email
normalization.
*/
func TestSignup(t *testing.T) {
	service := newTestService(t)

	user, err := service.Signup(context.Background(), users.SignupRequest{
		Name:  "Priya Raman",
		Email: "Priya@Example.Com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Priya Raman", user.Name)
	assert.Equal(t, "priya@example.com", user.Email, "stored email is lowercased")
	assert.Equal(t, sec.RoleStudent, user.Role, "role defaults to STUDENT")
	assert.False(t, user.CreatedAt.IsZero())
}

/*
TestSignup_Rejections verifies the validation failure modes.
*/
func TestSignup_Rejections(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  users.SignupRequest
	}{
		{"missing name", users.SignupRequest{Email: "a@example.com"}},
		{"missing email", users.SignupRequest{Name: "A"}},
		{"malformed email", users.SignupRequest{Name: "A", Email: "not-an-email"}},
		{"unknown role", users.SignupRequest{Name: "A", Email: "a@example.com", Role: "WIZARD"}},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Signup(ctx, testCase.req)
			assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
		})
	}
}

/*
TestSignup_DuplicateEmail verifies that email uniqueness is case-insensitive.
*/
func TestSignup_DuplicateEmail(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	_, err := service.Signup(ctx, users.SignupRequest{Name: "First", Email: "shared@example.com"})
	require.NoError(t, err)

	_, err = service.Signup(ctx, users.SignupRequest{Name: "Second", Email: "SHARED@example.com"})
	assert.True(t, apperr.IsCode(err, "CONFLICT"))
}

/*
TestLogin verifies the email lookup and that the minted token round-trips
through verification with the account's role intact.
*/
func TestLogin(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	created, err := service.Signup(ctx, users.SignupRequest{
		Name:  "Head Librarian",
		Email: "admin@example.com",
		Role:  string(sec.RoleAdmin),
	})
	require.NoError(t, err)

	result, err := service.Login(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, result.User.ID)
	require.NotEmpty(t, result.Token)

	tokens, err := sec.NewTokenService("test-secret", "librarium.test")
	require.NoError(t, err)

	claims, err := tokens.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, string(sec.RoleAdmin), claims.Role)
}

/*
TestLogin_UnknownEmail verifies that an unregistered email answers
UNAUTHORIZED rather than NOT_FOUND.
*/
func TestLogin_UnknownEmail(t *testing.T) {
	service := newTestService(t)

	_, err := service.Login(context.Background(), "ghost@example.com")
	assert.True(t, apperr.IsCode(err, "UNAUTHORIZED"))
}

/*
TestListAndGet verifies the read paths.
*/
func TestListAndGet(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	first, err := service.Signup(ctx, users.SignupRequest{Name: "One", Email: "one@example.com"})
	require.NoError(t, err)
	_, err = service.Signup(ctx, users.SignupRequest{Name: "Two", Email: "two@example.com"})
	require.NoError(t, err)

	accounts, err := service.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	fetched, err := service.GetUser(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "One", fetched.Name)

	_, err = service.GetUser(ctx, "no-such-id")
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}
