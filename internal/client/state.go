// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/notable/internal/client/localstore"
	"github.com/taibuivan/notable/internal/platform/apperr"
	"github.com/taibuivan/notable/internal/notes"
	"github.com/taibuivan/notable/pkg/textfold"
)

// # Note State

// LoadTimeout is the watchdog deadline for the initial notes fetch. If the
// server has not answered by then, the loading flag is forced off so a UI
// never spins forever.
const LoadTimeout = 5 * time.Second

// ErrLoadTimeout lands in the error slot when the watchdog fires before the
// fetch settles.
var ErrLoadTimeout = errors.New("connection timeout")

// Notifier receives a callback after every state change. May be nil.
type Notifier func()

// State holds the client-side working set of notes.
//
// # Semantics
//
//   - Mutations are write-through: the server answers first, then the local
//     set is reconciled with the server's canonical copy.
//   - Favorites are markers over note IDs, persisted on every toggle.
//   - Derived views (filtered, favorites) are recomputed from the base set
//     on every read; they are never stored.
//   - Exactly one error slot. A new failure overwrites the previous one.
type State struct {
	api   *Client
	store localstore.Store

	mu          sync.RWMutex
	notes       []*notes.Note
	currentNote *notes.Note
	searchTerm  string
	favoriteIDs map[string]bool
	lastErr     error
	loading     bool
	loadGen     int
	loadedOnce  bool
	loadTimeout time.Duration

	notify Notifier
}

// NewState restores favorite markers from the store and returns an empty,
// not-yet-loaded state.
func NewState(ctx context.Context, api *Client, store localstore.Store) (*State, error) {
	state := &State{
		api:         api,
		store:       store,
		favoriteIDs: make(map[string]bool),
		loadTimeout: LoadTimeout,
	}

	stored, err := store.Get(ctx, localstore.KeyFavorites)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		var ids []string
		if err := json.Unmarshal(stored, &ids); err == nil {
			for _, id := range ids {
				state.favoriteIDs[id] = true
			}
		}
	}

	return state, nil
}

// SetNotifier registers the change callback. Pass nil to silence it.
func (state *State) SetNotifier(notifier Notifier) {
	state.mu.Lock()
	state.notify = notifier
	state.mu.Unlock()
}

// # Loading

/*
Load fetches the full note set from the server.

Description: Sets the loading flag, arms the watchdog, and replaces the
local set wholesale with the server's answer. A failure empties the set and
lands in the error slot, never leaving a half-updated list; the loading flag
clears either way.

Parameters:
  - ctx: context.Context

Returns:
  - err: The fetch failure, also retained in the error slot
*/
func (state *State) Load(ctx context.Context) error {
	state.mu.Lock()
	state.loading = true
	state.loadGen++
	generation := state.loadGen
	state.mu.Unlock()
	state.changed()

	// Watchdog: a fetch that outlives the deadline must not leave the
	// loading flag stuck. The generation guard keeps an expired timer from
	// touching a newer load.
	timer := time.AfterFunc(state.loadTimeout, func() {
		state.mu.Lock()
		stuck := state.loading && state.loadGen == generation
		if stuck {
			state.loading = false
			state.lastErr = ErrLoadTimeout
		}
		state.mu.Unlock()
		if stuck {
			state.changed()
		}
	})
	defer timer.Stop()

	fetched, err := state.api.ListNotes(ctx)

	state.mu.Lock()
	if state.loadGen == generation {
		state.loading = false
	}
	if err != nil {
		state.notes = nil
		state.lastErr = err
	} else {
		state.notes = fetched
		state.lastErr = nil
		state.loadedOnce = true
	}
	state.mu.Unlock()
	state.changed()

	return err
}

/*
EnsureLoaded performs the initial fetch at most once per state lifetime.

Description: Re-initialising presentation components may ask for a load more
than once; after the first successful Load this is a no-op. A failed load
does not arm the guard, so the next call retries.

Parameters:
  - ctx: context.Context

Returns:
  - err: The fetch failure, when a load actually ran
*/
func (state *State) EnsureLoaded(ctx context.Context) error {
	state.mu.RLock()
	done := state.loadedOnce || state.loading
	state.mu.RUnlock()
	if done {
		return nil
	}
	return state.Load(ctx)
}

// Loading reports whether a Load is in flight (and under the deadline).
func (state *State) Loading() bool {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.loading
}

// # Mutations

// Add creates a note on the server and prepends the canonical copy, keeping
// newest-first order. Blank fields are rejected locally without a round
// trip; the form keeps its input so the user can fix it.
func (state *State) Add(ctx context.Context, title, content string) (*notes.Note, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		err := apperr.ValidationError("Title and content are required")
		state.fail(err)
		return nil, err
	}

	created, err := state.api.CreateNote(ctx, title, content)
	if err != nil {
		state.fail(err)
		return nil, err
	}

	state.mu.Lock()
	state.notes = append([]*notes.Note{created}, state.notes...)
	state.mu.Unlock()
	state.changed()

	return created, nil
}

// Update applies a partial update and reconciles the local copy with the
// server's answer.
func (state *State) Update(ctx context.Context, id string, title, content *string) (*notes.Note, error) {
	updated, err := state.api.UpdateNote(ctx, id, title, content)
	if err != nil {
		state.fail(err)
		return nil, err
	}

	state.replace(updated)
	return updated, nil
}

/*
UpdateWithFallback updates a note, retrying once through the confirmation
endpoint when the primary update fails.

Description: The fallback is strictly a second attempt after failure; a
successful primary update never touches the confirmation endpoint. When
both attempts fail, the error slot holds the fallback's error.

Parameters:
  - ctx: context.Context
  - id: Note identifier
  - title: Optional replacement title
  - content: Optional replacement content

Returns:
  - *notes.Note: Canonical copy from whichever attempt succeeded
  - err: The final failure when both attempts were rejected
*/
func (state *State) UpdateWithFallback(ctx context.Context, id string, title, content *string) (*notes.Note, error) {
	updated, err := state.api.UpdateNote(ctx, id, title, content)
	if err == nil {
		state.replace(updated)
		return updated, nil
	}

	confirmed, fallbackErr := state.api.ConfirmUpdateNote(ctx, id, title, content)
	if fallbackErr != nil {
		state.fail(fallbackErr)
		return nil, fallbackErr
	}

	state.replace(confirmed)
	return confirmed, nil
}

// Delete removes the note on the server, then locally, dropping its
// favorite marker and clearing the selection if it pointed there.
func (state *State) Delete(ctx context.Context, id string) error {
	if err := state.api.DeleteNote(ctx, id); err != nil {
		state.fail(err)
		return err
	}

	state.mu.Lock()
	kept := state.notes[:0]
	for _, note := range state.notes {
		if note.ID != id {
			kept = append(kept, note)
		}
	}
	state.notes = kept

	if state.currentNote != nil && state.currentNote.ID == id {
		state.currentNote = nil
	}

	wasFavorite := state.favoriteIDs[id]
	delete(state.favoriteIDs, id)
	state.mu.Unlock()

	if wasFavorite {
		state.persistFavorites(ctx)
	}
	state.changed()

	return nil
}

// # Selection & Search

// SetCurrent selects the note with the given ID, or clears the selection
// when the ID is unknown.
func (state *State) SetCurrent(id string) {
	state.mu.Lock()
	state.currentNote = nil
	for _, note := range state.notes {
		if note.ID == id {
			state.currentNote = note
			break
		}
	}
	state.mu.Unlock()
	state.changed()
}

// ClearCurrent drops the selection.
func (state *State) ClearCurrent() {
	state.mu.Lock()
	state.currentNote = nil
	state.mu.Unlock()
	state.changed()
}

// Current returns the selected note, or nil.
func (state *State) Current() *notes.Note {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.currentNote
}

// SetSearch stores the active filter term. The base set is untouched;
// FilteredNotes applies the term on read.
func (state *State) SetSearch(term string) {
	state.mu.Lock()
	state.searchTerm = term
	state.mu.Unlock()
	state.changed()
}

// SearchTerm returns the active filter term.
func (state *State) SearchTerm() string {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.searchTerm
}

// # Favorites

// ToggleFavorite flips the favorite marker for a note ID and persists the
// marker set immediately.
func (state *State) ToggleFavorite(ctx context.Context, id string) {
	state.mu.Lock()
	if state.favoriteIDs[id] {
		delete(state.favoriteIDs, id)
	} else {
		state.favoriteIDs[id] = true
	}
	state.mu.Unlock()

	state.persistFavorites(ctx)
	state.changed()
}

// IsFavorite reports whether the note ID carries a favorite marker.
func (state *State) IsFavorite(id string) bool {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.favoriteIDs[id]
}

// # Derived Views

// Notes returns the base set in its server order.
func (state *State) Notes() []*notes.Note {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return append([]*notes.Note(nil), state.notes...)
}

// FilteredNotes returns the notes matching the active search term by
// case-insensitive substring over title and content. An empty term returns
// the full set. The computation is pure: calling it repeatedly with the
// same inputs yields the same result.
func (state *State) FilteredNotes() []*notes.Note {
	state.mu.RLock()
	defer state.mu.RUnlock()

	if state.searchTerm == "" {
		return append([]*notes.Note(nil), state.notes...)
	}

	matched := make([]*notes.Note, 0, len(state.notes))
	for _, note := range state.notes {
		if textfold.Contains(note.Title, state.searchTerm) || textfold.Contains(note.Content, state.searchTerm) {
			matched = append(matched, note)
		}
	}
	return matched
}

// FavoriteNotes returns the favorited subset in base-set order. Markers
// for notes that no longer exist are simply skipped.
func (state *State) FavoriteNotes() []*notes.Note {
	state.mu.RLock()
	defer state.mu.RUnlock()

	matched := make([]*notes.Note, 0, len(state.favoriteIDs))
	for _, note := range state.notes {
		if state.favoriteIDs[note.ID] {
			matched = append(matched, note)
		}
	}
	return matched
}

// # Error Slot

// Err returns the most recent failure, or nil.
func (state *State) Err() error {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.lastErr
}

// ClearErr empties the error slot.
func (state *State) ClearErr() {
	state.mu.Lock()
	state.lastErr = nil
	state.mu.Unlock()
	state.changed()
}

// # Internals

// replace swaps the note with a matching ID for the server's canonical
// copy, updating the selection if it pointed there.
func (state *State) replace(updated *notes.Note) {
	state.mu.Lock()
	for index, note := range state.notes {
		if note.ID == updated.ID {
			state.notes[index] = updated
			break
		}
	}
	if state.currentNote != nil && state.currentNote.ID == updated.ID {
		state.currentNote = updated
	}
	state.mu.Unlock()
	state.changed()
}

// fail records a failure in the error slot, overwriting any previous one.
func (state *State) fail(err error) {
	state.mu.Lock()
	state.lastErr = err
	state.mu.Unlock()
	state.changed()
}

// persistFavorites writes the marker set through to durable storage.
func (state *State) persistFavorites(ctx context.Context) {
	state.mu.RLock()
	ids := make([]string, 0, len(state.favoriteIDs))
	for id := range state.favoriteIDs {
		ids = append(ids, id)
	}
	state.mu.RUnlock()

	encoded, err := json.Marshal(ids)
	if err != nil {
		return
	}
	_ = state.store.Set(ctx, localstore.KeyFavorites, encoded)
}

// changed fires the notifier outside of any lock.
func (state *State) changed() {
	state.mu.RLock()
	notifier := state.notify
	state.mu.RUnlock()

	if notifier != nil {
		notifier()
	}
}
