// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/notable/internal/platform/apperr"
	"github.com/taibuivan/notable/pkg/textfold"
)

// MemoryRepository is an in-memory Repository used for development and tests.
//
// It is selected explicitly at startup (STORE_DRIVER=memory), never as a
// runtime fallback when PostgreSQL is unreachable. Semantics mirror the
// PostgreSQL implementation, including ordering and error mapping.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*Note
	clock func() time.Time
}

// NewMemoryRepository creates an empty in-memory note store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:  make(map[string]*Note),
		clock: time.Now,
	}
}

// Create stores a copy of the note, initializing timestamps if unset.
func (repository *MemoryRepository) Create(_ context.Context, note *Note) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	now := repository.clock()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	stored := *note
	repository.byID[note.ID] = &stored
	return nil
}

// ListByOwner returns the owner's notes, newest-created first.
func (repository *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]*Note, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	return repository.collect(ownerID, func(*Note) bool { return true }), nil
}

// FindByID returns a copy of the note or apperr.NotFound.
func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Note, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	stored, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("Note")
	}

	note := *stored
	return &note, nil
}

// UpdateFields applies a partial update under the store lock, so concurrent
// updates to the same note serialize with last-write-wins semantics.
func (repository *MemoryRepository) UpdateFields(_ context.Context, id string, title, content *string) (*Note, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("Note")
	}

	if title != nil {
		stored.Title = *title
	}
	if content != nil {
		stored.Content = *content
	}
	stored.UpdatedAt = repository.clock()

	note := *stored
	return &note, nil
}

// Delete removes the note or returns apperr.NotFound.
func (repository *MemoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.byID[id]; !ok {
		return apperr.NotFound("Note")
	}

	delete(repository.byID, id)
	return nil
}

// SearchByOwner filters the owner's notes by case-folded substring match
// over title and content, same ordering as ListByOwner.
func (repository *MemoryRepository) SearchByOwner(_ context.Context, ownerID, query string) ([]*Note, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	matches := func(note *Note) bool {
		return textfold.Contains(note.Title, query) || textfold.Contains(note.Content, query)
	}
	return repository.collect(ownerID, matches), nil
}

// collect copies the owner's notes passing the filter, newest-created first.
// Callers must hold at least the read lock.
func (repository *MemoryRepository) collect(ownerID string, keep func(*Note) bool) []*Note {
	result := make([]*Note, 0)

	for _, stored := range repository.byID {
		if stored.OwnerID != ownerID || !keep(stored) {
			continue
		}
		note := *stored
		result = append(result, &note)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		// UUIDv7 identifiers are time-sortable; break ties deterministically.
		return result[i].ID > result[j].ID
	})

	return result
}
