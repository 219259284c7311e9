// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notes

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/notable/internal/platform/constants"
)

// listCacheTTL bounds staleness if an invalidation is ever lost.
const listCacheTTL = 5 * time.Minute

// CachedRepository decorates a Repository with a per-owner list cache in Redis.
//
// # Consistency
//
// Every mutation (Create, UpdateFields, Delete) invalidates the owner's list
// key before returning, so a session always reads its own writes. Cache
// failures are never surfaced to callers: a broken Redis degrades to primary
// store reads, not to request errors.
//
// Search results are intentionally not cached — the query space is unbounded
// and the primary store already scopes the scan to one owner.
type CachedRepository struct {
	primary Repository
	cache   *redis.Client
	logger  *slog.Logger
}

// NewCachedRepository wraps primary with a Redis-backed list cache.
func NewCachedRepository(primary Repository, cache *redis.Client, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{primary: primary, cache: cache, logger: logger}
}

// Create writes through to the primary store and invalidates the owner's list.
func (repository *CachedRepository) Create(context context.Context, note *Note) error {
	if err := repository.primary.Create(context, note); err != nil {
		return err
	}
	repository.invalidate(context, note.OwnerID)
	return nil
}

// ListByOwner serves from cache when possible, falling back to the primary
// store and repopulating on miss.
func (repository *CachedRepository) ListByOwner(context context.Context, ownerID string) ([]*Note, error) {
	key := constants.RedisPrefixNoteList + ownerID

	cached, err := repository.cache.Get(context, key).Bytes()
	if err == nil {
		var result []*Note
		if unmarshalErr := json.Unmarshal(cached, &result); unmarshalErr == nil {
			return result, nil
		}
		// Corrupt entry: drop it and fall through to the primary store.
		repository.invalidate(context, ownerID)
	}

	result, err := repository.primary.ListByOwner(context, ownerID)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(result); marshalErr == nil {
		if setErr := repository.cache.Set(context, key, payload, listCacheTTL).Err(); setErr != nil {
			repository.logger.Warn("note_list_cache_set_failed",
				slog.String("owner_id", ownerID),
				slog.Any("error", setErr),
			)
		}
	}

	return result, nil
}

// FindByID always goes to the primary store; single-note reads are cheap
// and caching them would complicate invalidation for no measurable win.
func (repository *CachedRepository) FindByID(context context.Context, id string) (*Note, error) {
	return repository.primary.FindByID(context, id)
}

// UpdateFields writes through and invalidates the owner's list.
func (repository *CachedRepository) UpdateFields(context context.Context, id string, title, content *string) (*Note, error) {
	note, err := repository.primary.UpdateFields(context, id, title, content)
	if err != nil {
		return nil, err
	}
	repository.invalidate(context, note.OwnerID)
	return note, nil
}

// Delete resolves the owner first so the right list key can be invalidated.
func (repository *CachedRepository) Delete(context context.Context, id string) error {
	note, err := repository.primary.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := repository.primary.Delete(context, id); err != nil {
		return err
	}

	repository.invalidate(context, note.OwnerID)
	return nil
}

// SearchByOwner passes through to the primary store.
func (repository *CachedRepository) SearchByOwner(context context.Context, ownerID, query string) ([]*Note, error) {
	return repository.primary.SearchByOwner(context, ownerID, query)
}

// invalidate drops the owner's cached list, logging (not propagating) failures.
func (repository *CachedRepository) invalidate(context context.Context, ownerID string) {
	key := constants.RedisPrefixNoteList + ownerID
	if err := repository.cache.Del(context, key).Err(); err != nil {
		repository.logger.Warn("note_list_cache_invalidate_failed",
			slog.String("owner_id", ownerID),
			slog.Any("error", err),
		)
	}
}
