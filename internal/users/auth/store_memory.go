// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/notable/internal/platform/apperr"
)

// MemoryUserRepository is an in-memory UserRepository used for development
// and tests.
//
// It is selected explicitly at startup (STORE_DRIVER=memory), never as a
// runtime fallback. Semantics mirror the PostgreSQL implementation,
// including the unique-email Conflict and error mapping.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
	clock   func() time.Time
}

// NewMemoryUserRepository creates an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
		clock:   time.Now,
	}
}

// Create stores a copy of the user, enforcing email uniqueness.
func (repository *MemoryUserRepository) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, exists := repository.byEmail[user.Email]; exists {
		return apperr.Conflict("User already exists")
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = repository.clock()
	}

	stored := *user
	repository.byID[user.ID] = &stored
	repository.byEmail[user.Email] = user.ID
	return nil
}

// FindByEmail returns a copy of the user or apperr.NotFound.
func (repository *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	id, exists := repository.byEmail[email]
	if !exists {
		return nil, apperr.NotFound("User")
	}

	found := *repository.byID[id]
	return &found, nil
}

// FindByID returns a copy of the user or apperr.NotFound.
func (repository *MemoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	user, exists := repository.byID[id]
	if !exists {
		return nil, apperr.NotFound("User")
	}

	found := *user
	return &found, nil
}
