// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/notable/internal/client"
	"github.com/taibuivan/notable/internal/client/localstore"
	"github.com/taibuivan/notable/internal/notes"
)

// fakeAPI is a minimal in-memory stand-in for the Notable server.
//
// It implements just enough of the notes surface for the state tests and
// can be told to reject primary updates so the fallback path is reachable.
type fakeAPI struct {
	mu           sync.Mutex
	notes        []*notes.Note
	nextID       int
	failUpdates  bool
	failList     bool
	confirmCalls int
	updateCalls  int
	listCalls    int
}

func (api *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/notes", func(writer http.ResponseWriter, request *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		api.listCalls++
		if api.failList {
			api.writeJSON(writer, http.StatusInternalServerError, map[string]string{
				"error": "list rejected",
				"code":  "INTERNAL_ERROR",
			})
			return
		}
		api.writeJSON(writer, http.StatusOK, api.notes)
	})

	mux.HandleFunc("POST /api/notes", func(writer http.ResponseWriter, request *http.Request) {
		var payload struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		}
		json.NewDecoder(request.Body).Decode(&payload)

		api.mu.Lock()
		defer api.mu.Unlock()
		api.nextID++
		note := &notes.Note{
			ID:        "note-" + string(rune('a'+api.nextID-1)),
			Title:     payload.Title,
			Content:   payload.Content,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		api.notes = append([]*notes.Note{note}, api.notes...)
		api.writeJSON(writer, http.StatusCreated, note)
	})

	mux.HandleFunc("PUT /api/notes/{id}", func(writer http.ResponseWriter, request *http.Request) {
		api.mu.Lock()
		api.updateCalls++
		shouldFail := api.failUpdates
		api.mu.Unlock()

		if shouldFail {
			api.writeJSON(writer, http.StatusInternalServerError, map[string]string{
				"error": "update rejected",
				"code":  "INTERNAL_ERROR",
			})
			return
		}
		api.applyUpdate(writer, request)
	})

	mux.HandleFunc("POST /api/notes/{id}/confirm-update", func(writer http.ResponseWriter, request *http.Request) {
		api.mu.Lock()
		api.confirmCalls++
		api.mu.Unlock()

		api.applyUpdateConfirmed(writer, request)
	})

	mux.HandleFunc("DELETE /api/notes/{id}", func(writer http.ResponseWriter, request *http.Request) {
		id := request.PathValue("id")

		api.mu.Lock()
		defer api.mu.Unlock()
		kept := api.notes[:0]
		for _, note := range api.notes {
			if note.ID != id {
				kept = append(kept, note)
			}
		}
		api.notes = kept
		api.writeJSON(writer, http.StatusOK, map[string]string{"message": "Note removed"})
	})

	return mux
}

func (api *fakeAPI) applyUpdate(writer http.ResponseWriter, request *http.Request) {
	note := api.mutate(request)
	if note == nil {
		api.writeJSON(writer, http.StatusNotFound, map[string]string{"error": "Note", "code": "NOT_FOUND"})
		return
	}
	api.writeJSON(writer, http.StatusOK, note)
}

func (api *fakeAPI) applyUpdateConfirmed(writer http.ResponseWriter, request *http.Request) {
	note := api.mutate(request)
	if note == nil {
		api.writeJSON(writer, http.StatusNotFound, map[string]string{"error": "Note", "code": "NOT_FOUND"})
		return
	}
	api.writeJSON(writer, http.StatusOK, map[string]any{"confirmed": true, "note": note})
}

func (api *fakeAPI) mutate(request *http.Request) *notes.Note {
	var payload struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	json.NewDecoder(request.Body).Decode(&payload)
	id := request.PathValue("id")

	api.mu.Lock()
	defer api.mu.Unlock()
	for _, note := range api.notes {
		if note.ID == id {
			if payload.Title != nil {
				note.Title = *payload.Title
			}
			if payload.Content != nil {
				note.Content = *payload.Content
			}
			note.UpdatedAt = time.Now()
			copied := *note
			return &copied
		}
	}
	return nil
}

func (api *fakeAPI) writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(payload)
}

func newTestState(t *testing.T) (*client.State, *fakeAPI, localstore.Store) {
	t.Helper()

	api := &fakeAPI{}
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	store := localstore.NewMemoryStore()
	apiClient := client.NewClient(server.URL, func() string { return "test-token" })

	state, err := client.NewState(context.Background(), apiClient, store)
	require.NoError(t, err)
	return state, api, store
}

/*
TestState_LoadAndAdd verifies loading and newest-first insertion.
*/
func TestState_LoadAndAdd(t *testing.T) {
	state, _, _ := newTestState(t)
	ctx := context.Background()

	require.NoError(t, state.Load(ctx))
	assert.Empty(t, state.Notes())
	assert.False(t, state.Loading())

	first, err := state.Add(ctx, "First", "a")
	require.NoError(t, err)
	second, err := state.Add(ctx, "Second", "b")
	require.NoError(t, err)

	listed := state.Notes()
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, first.ID, listed[1].ID)
}

/*
TestState_LoadFailure verifies a failed load empties the set rather than
leaving a stale list behind the error.
*/
func TestState_LoadFailure(t *testing.T) {
	state, api, _ := newTestState(t)
	ctx := context.Background()

	_, err := state.Add(ctx, "Kept?", "no")
	require.NoError(t, err)
	require.Len(t, state.Notes(), 1)

	api.mu.Lock()
	api.failList = true
	api.mu.Unlock()

	require.Error(t, state.Load(ctx))
	assert.Empty(t, state.Notes())
	assert.False(t, state.Loading())
	assert.Error(t, state.Err())

	// Recovery: the next successful load clears nothing but fills the set.
	api.mu.Lock()
	api.failList = false
	api.mu.Unlock()

	require.NoError(t, state.Load(ctx))
	assert.Len(t, state.Notes(), 1)
	assert.NoError(t, state.Err())
}

/*
TestState_EnsureLoaded verifies the initial fetch runs at most once, and
that a failed attempt does not arm the guard.
*/
func TestState_EnsureLoaded(t *testing.T) {
	state, api, _ := newTestState(t)
	ctx := context.Background()

	api.mu.Lock()
	api.failList = true
	api.mu.Unlock()

	require.Error(t, state.EnsureLoaded(ctx))

	api.mu.Lock()
	api.failList = false
	api.mu.Unlock()

	require.NoError(t, state.EnsureLoaded(ctx))
	require.NoError(t, state.EnsureLoaded(ctx))
	require.NoError(t, state.EnsureLoaded(ctx))

	api.mu.Lock()
	calls := api.listCalls
	api.mu.Unlock()
	assert.Equal(t, 2, calls)
}

/*
TestState_LoadWatchdog verifies a fetch that never settles cannot pin the
loading flag: after the deadline the flag drops and the timeout error lands
in the slot.
*/
func TestState_LoadWatchdog(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	apiClient := client.NewClient(server.URL, func() string { return "test-token" })
	state, err := client.NewState(context.Background(), apiClient, localstore.NewMemoryStore())
	require.NoError(t, err)
	state.SetLoadTimeout(50 * time.Millisecond)

	go state.Load(context.Background())

	require.Eventually(t, func() bool {
		return !state.Loading() && errors.Is(state.Err(), client.ErrLoadTimeout)
	}, 2*time.Second, 10*time.Millisecond)
}

/*
TestState_Update_SetSemantics verifies reconciliation replaces in place.
*/
func TestState_Update_SetSemantics(t *testing.T) {
	state, api, _ := newTestState(t)
	ctx := context.Background()

	note, err := state.Add(ctx, "Title", "Content")
	require.NoError(t, err)
	state.SetCurrent(note.ID)

	updated, err := state.Update(ctx, note.ID, nil, strptr("New content"))
	require.NoError(t, err)
	assert.Equal(t, "New content", updated.Content)

	// Exactly one copy in the set, the selection tracks the new copy, and
	// the primary endpoint saw exactly one call.
	listed := state.Notes()
	require.Len(t, listed, 1)
	assert.Equal(t, "New content", listed[0].Content)
	assert.Equal(t, "New content", state.Current().Content)
	assert.Equal(t, 1, api.updateCalls)
}

/*
TestState_UpdateWithFallback_OnlyAfterFailure verifies the confirmation
endpoint is untouched while primary updates succeed.
*/
func TestState_UpdateWithFallback_OnlyAfterFailure(t *testing.T) {
	state, api, _ := newTestState(t)
	ctx := context.Background()

	note, err := state.Add(ctx, "Title", "Content")
	require.NoError(t, err)

	// Healthy path: no confirm call.
	_, err = state.UpdateWithFallback(ctx, note.ID, strptr("Updated"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, api.confirmCalls)

	// Broken primary: fallback fires once and reconciles.
	api.mu.Lock()
	api.failUpdates = true
	api.mu.Unlock()

	recovered, err := state.UpdateWithFallback(ctx, note.ID, strptr("Recovered"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, api.confirmCalls)
	assert.Equal(t, "Recovered", recovered.Title)
	assert.Equal(t, "Recovered", state.Notes()[0].Title)
}

/*
TestState_Delete verifies local removal, selection reset, and marker cleanup.
*/
func TestState_Delete(t *testing.T) {
	state, _, store := newTestState(t)
	ctx := context.Background()

	note, err := state.Add(ctx, "Doomed", "bye")
	require.NoError(t, err)

	state.SetCurrent(note.ID)
	state.ToggleFavorite(ctx, note.ID)
	require.True(t, state.IsFavorite(note.ID))

	require.NoError(t, state.Delete(ctx, note.ID))

	assert.Empty(t, state.Notes())
	assert.Nil(t, state.Current())
	assert.False(t, state.IsFavorite(note.ID))

	// The marker is gone from durable storage as well.
	stored, err := store.Get(ctx, localstore.KeyFavorites)
	require.NoError(t, err)
	assert.NotContains(t, string(stored), note.ID)
}

/*
TestState_FilteredNotes verifies the derived view is pure and idempotent.
*/
func TestState_FilteredNotes(t *testing.T) {
	state, _, _ := newTestState(t)
	ctx := context.Background()

	_, err := state.Add(ctx, "Groceries", "Buy MILK")
	require.NoError(t, err)
	_, err = state.Add(ctx, "Workout", "Leg day")
	require.NoError(t, err)

	state.SetSearch("milk")

	first := state.FilteredNotes()
	second := state.FilteredNotes()
	require.Len(t, first, 1)
	assert.Equal(t, "Groceries", first[0].Title)
	assert.Equal(t, first, second)

	// The base set is untouched by filtering.
	assert.Len(t, state.Notes(), 2)

	// Clearing the term restores the full set.
	state.SetSearch("")
	assert.Len(t, state.FilteredNotes(), 2)
}

/*
TestState_Favorites_SurviveRestart verifies markers reload from the store.
*/
func TestState_Favorites_SurviveRestart(t *testing.T) {
	state, api, store := newTestState(t)
	ctx := context.Background()

	note, err := state.Add(ctx, "Keeper", "stays")
	require.NoError(t, err)
	state.ToggleFavorite(ctx, note.ID)

	// A fresh state over the same store sees the marker after loading.
	server := httptest.NewServer(api.handler())
	defer server.Close()
	apiClient := client.NewClient(server.URL, func() string { return "test-token" })

	restored, err := client.NewState(ctx, apiClient, store)
	require.NoError(t, err)
	require.NoError(t, restored.Load(ctx))

	assert.True(t, restored.IsFavorite(note.ID))
	favorites := restored.FavoriteNotes()
	require.Len(t, favorites, 1)
	assert.Equal(t, note.ID, favorites[0].ID)
}

/*
TestState_ErrorSlot verifies last-wins error semantics.
*/
func TestState_ErrorSlot(t *testing.T) {
	state, api, _ := newTestState(t)
	ctx := context.Background()

	note, err := state.Add(ctx, "Title", "Content")
	require.NoError(t, err)

	api.mu.Lock()
	api.failUpdates = true
	api.mu.Unlock()

	// Both attempts fail against an unknown ID, the slot holds the latest.
	_, err = state.Update(ctx, note.ID, strptr("x"), nil)
	require.Error(t, err)
	firstErr := state.Err()
	require.Error(t, firstErr)

	_, err = state.UpdateWithFallback(ctx, "missing-id", strptr("y"), nil)
	require.Error(t, err)
	require.Error(t, state.Err())
	assert.NotSame(t, firstErr, state.Err())
	assert.True(t, strings.Contains(state.Err().Error(), "Note"))

	state.ClearErr()
	assert.NoError(t, state.Err())
}

func strptr(s string) *string { return &s }
