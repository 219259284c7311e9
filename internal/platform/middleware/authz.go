// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package middleware provides the HTTP middleware chain for the Notable API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, Rate Limiting, and CORS.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/notable/internal/platform/apperr"
	"github.com/taibuivan/notable/internal/platform/constants"
	"github.com/taibuivan/notable/internal/platform/ctxkey"
	"github.com/taibuivan/notable/internal/platform/respond"
	"github.com/taibuivan/notable/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the token
// service implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the bearer token on each request.
//
// This is the only place identity is established: handlers never trust a
// client-supplied user identifier in the request body.
//
// # Flow
//  1. Read the fixed 'x-auth-token' header; fall back to
//     'Authorization: Bearer <token>'.
//  2. If absent, request proceeds as anonymous ([RequireAuth] rejects later).
//  3. If present, verify signature and expiry via [TokenVerifier].
//  4. On success inject [*sec.AuthClaims] into the request context; on
//     failure reject with 401 — an expired or invalid token is never a
//     silent pass-through.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenStr, ok := extractToken(request)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if !ok && tokenStr == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := context.WithValue(request.Context(), ctxkey.KeyUser, claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. Every Notes API
// handler sits behind this gate.
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("No token, authorization denied"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

// extractToken pulls the raw token string out of the request headers.
//
// The second return value distinguishes "no token at all" (false, "") from
// "token present" (true, token) and "present but malformed" (false, header).
func extractToken(request *http.Request) (string, bool) {
	// The browser client sends the fixed token header.
	if token := request.Header.Get(constants.HeaderAuthToken); token != "" {
		return token, true
	}

	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return authHeader, false
	}
	return parts[1], true
}
