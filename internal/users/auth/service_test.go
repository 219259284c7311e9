// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/notable/internal/platform/apperr"
	"github.com/taibuivan/notable/internal/platform/sec"
	"github.com/taibuivan/notable/internal/users/auth"
)

func newTestService(t *testing.T) (*auth.Service, *sec.TokenService) {
	t.Helper()
	tokens, err := sec.NewTokenService("auth-test-secret", "notable.app")
	require.NoError(t, err)
	return auth.NewService(auth.NewMemoryUserRepository(), tokens), tokens
}

func registerAlice(t *testing.T, service *auth.Service) string {
	t.Helper()
	token, err := service.Register(context.Background(), auth.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return token
}

/*
TestService_Register verifies registration returns a usable token.
*/
func TestService_Register(t *testing.T) {
	service, tokens := newTestService(t)

	token := registerAlice(t, service)

	claims, err := tokens.VerifyToken(token)
	require.NoError(t, err)

	user, err := service.CurrentUser(context.Background(), claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "hunter22", user.PasswordHash)
}

/*
TestService_Register_Duplicate verifies the duplicate-email Conflict.
*/
func TestService_Register_Duplicate(t *testing.T) {
	service, _ := newTestService(t)
	registerAlice(t, service)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Name:     "Alice Again",
		Email:    "alice@example.com",
		Password: "different",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	assert.Equal(t, "User already exists", ae.Message)
}

/*
TestService_Login verifies credential exchange and the generic rejection.
*/
func TestService_Login(t *testing.T) {
	service, tokens := newTestService(t)
	registerAlice(t, service)

	token, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = tokens.VerifyToken(token)
	assert.NoError(t, err)

	// Wrong password and unknown email fail identically.
	_, wrongPass := service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	_, unknownEmail := service.Login(context.Background(), auth.LoginInput{
		Email:    "nobody@example.com",
		Password: "hunter22",
	})

	for _, err := range []error{wrongPass, unknownEmail} {
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
		assert.Equal(t, "Invalid credentials", ae.Message)
	}
}

/*
TestService_CurrentUser_Unknown verifies profile resolution of a missing account.
*/
func TestService_CurrentUser_Unknown(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.CurrentUser(context.Background(), "missing-user")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}
