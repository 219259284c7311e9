// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"context"
	"sync"

	"github.com/taibuivan/notable/internal/client/localstore"
	"github.com/taibuivan/notable/internal/users/auth"
)

// # Session

// Session owns the auth token lifecycle on the client side.
//
// The token lives in [localstore.Store] under the "token" key, so a
// restarted client is still signed in. When any API call comes back 401
// the token is dropped and the OnUnauthenticated hook fires; the hook is
// where a UI would navigate back to its login screen.
type Session struct {
	api   *Client
	store localstore.Store

	mu    sync.RWMutex
	token string
	user  *auth.User

	// OnUnauthenticated is invoked after the token has been cleared
	// because the server rejected it. May be nil.
	OnUnauthenticated func()
}

// NewSession restores a session from the store and wires the client's
// token source and 401 hook to it.
func NewSession(ctx context.Context, api *Client, store localstore.Store) (*Session, error) {
	session := &Session{api: api, store: store}

	stored, err := store.Get(ctx, localstore.KeyToken)
	if err != nil {
		return nil, err
	}
	session.token = string(stored)

	api.tokenSource = session.Token
	api.SetUnauthorizedHandler(session.handleUnauthorized)

	return session, nil
}

// Token returns the current auth token, or "" when signed out.
func (session *Session) Token() string {
	session.mu.RLock()
	defer session.mu.RUnlock()
	return session.token
}

// IsAuthenticated reports whether a token is present. It says nothing
// about validity; the first rejected call clears it.
func (session *Session) IsAuthenticated() bool {
	return session.Token() != ""
}

// User returns the last loaded profile, or nil before LoadUser succeeds.
func (session *Session) User() *auth.User {
	session.mu.RLock()
	defer session.mu.RUnlock()
	return session.user
}

// # Sign-in Flows

// Register creates an account and signs the session in with the returned
// token.
func (session *Session) Register(ctx context.Context, name, email, password string) error {
	token, err := session.api.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	return session.adopt(ctx, token)
}

// Login exchanges credentials for a token and signs the session in.
func (session *Session) Login(ctx context.Context, email, password string) error {
	token, err := session.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return session.adopt(ctx, token)
}

// LoadUser fetches the profile behind the current token. A rejected token
// clears the session through the 401 hook before the error returns.
func (session *Session) LoadUser(ctx context.Context) (*auth.User, error) {
	user, err := session.api.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	session.user = user
	session.mu.Unlock()
	return user, nil
}

// Logout clears the token and profile. It never fails the caller: the
// worst case is a stale token row that the next login overwrites.
func (session *Session) Logout(ctx context.Context) {
	session.mu.Lock()
	session.token = ""
	session.user = nil
	session.mu.Unlock()

	_ = session.store.Delete(ctx, localstore.KeyToken)
}

// adopt persists the token and eagerly loads the profile behind it.
func (session *Session) adopt(ctx context.Context, token string) error {
	session.mu.Lock()
	session.token = token
	session.mu.Unlock()

	if err := session.store.Set(ctx, localstore.KeyToken, []byte(token)); err != nil {
		return err
	}

	_, err := session.LoadUser(ctx)
	return err
}

// handleUnauthorized drops the rejected token and notifies the owner.
func (session *Session) handleUnauthorized() {
	session.mu.Lock()
	alreadyOut := session.token == ""
	session.token = ""
	session.user = nil
	session.mu.Unlock()

	_ = session.store.Delete(context.Background(), localstore.KeyToken)

	if !alreadyOut && session.OnUnauthenticated != nil {
		session.OnUnauthenticated()
	}
}
