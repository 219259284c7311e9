// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/notable/internal/platform/sec"
)

const testSecret = "the-test-signing-secret"

/*
TestTokenService_RoundTrip verifies that a generated token verifies back to
the same subject.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService(testSecret, "notable.app")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("user-123", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "notable.app", claims.Issuer)
}

/*
TestTokenService_Expired verifies that an expired token is rejected.
*/
func TestTokenService_Expired(t *testing.T) {
	service, err := sec.NewTokenService(testSecret, "notable.app")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("user-123", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_WrongSecret verifies that tokens signed elsewhere fail.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	issuer, err := sec.NewTokenService(testSecret, "notable.app")
	require.NoError(t, err)

	verifier, err := sec.NewTokenService("a-different-secret", "notable.app")
	require.NoError(t, err)

	token, err := issuer.GenerateAccessToken("user-123", time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_EmptySecret verifies the constructor rejects a missing secret.
*/
func TestTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", "notable.app")
	assert.Error(t, err)
}

/*
TestTokenService_Garbage verifies malformed token strings are rejected.
*/
func TestTokenService_Garbage(t *testing.T) {
	service, err := sec.NewTokenService(testSecret, "notable.app")
	require.NoError(t, err)

	_, err = service.VerifyToken("not.a.jwt")
	assert.Error(t, err)
}

/*
TestPasswordHash_RoundTrip verifies hashing and constant-time verification.
*/
func TestPasswordHash_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
}
