// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notes_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/notable/internal/notes"
	"github.com/taibuivan/notable/internal/platform/apperr"
)

const (
	ownerAlice = "owner-alice"
	ownerBob   = "owner-bob"
)

func newTestService() *notes.Service {
	return notes.NewService(notes.NewMemoryRepository())
}

func mustCreate(t *testing.T, service *notes.Service, ownerID, title, content string) *notes.Note {
	t.Helper()
	note, err := service.Create(context.Background(), ownerID, notes.CreateInput{
		Title:   title,
		Content: content,
	})
	require.NoError(t, err)
	return note
}

func strptr(s string) *string { return &s }

/*
TestService_Create verifies creation assigns identity and timestamps.
*/
func TestService_Create(t *testing.T) {
	service := newTestService()

	note := mustCreate(t, service, ownerAlice, "Groceries", "Eggs and milk")

	assert.NotEmpty(t, note.ID)
	assert.Equal(t, ownerAlice, note.OwnerID)
	assert.False(t, note.CreatedAt.IsZero())
	assert.False(t, note.UpdatedAt.Before(note.CreatedAt))
}

/*
TestService_Create_Validation rejects empty and oversized fields.
*/
func TestService_Create_Validation(t *testing.T) {
	service := newTestService()

	tests := []struct {
		name    string
		title   string
		content string
	}{
		{"empty_title", "", "body"},
		{"empty_content", "title", ""},
		{"whitespace_title", "   ", "body"},
		{"title_too_long", strings.Repeat("x", notes.MaxTitleLen+1), "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), ownerAlice, notes.CreateInput{
				Title:   tt.title,
				Content: tt.content,
			})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		})
	}
}

/*
TestService_List verifies owner scoping and newest-first ordering.
*/
func TestService_List(t *testing.T) {
	service := newTestService()

	first := mustCreate(t, service, ownerAlice, "First", "a")
	second := mustCreate(t, service, ownerAlice, "Second", "b")
	mustCreate(t, service, ownerBob, "Intruder", "c")

	listed, err := service.List(context.Background(), ownerAlice)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	// Newest-created first.
	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, first.ID, listed[1].ID)
}

/*
TestService_Get_Ownership verifies the NotFound/Forbidden split.
*/
func TestService_Get_Ownership(t *testing.T) {
	service := newTestService()
	note := mustCreate(t, service, ownerAlice, "Private", "secret")

	// Owner reads fine.
	fetched, err := service.Get(context.Background(), ownerAlice, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ID, fetched.ID)

	// Another user is Forbidden with a generic message.
	_, err = service.Get(context.Background(), ownerBob, note.ID)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
	assert.Equal(t, "Not authorized", ae.Message)

	// An unknown identifier is NotFound.
	_, err = service.Get(context.Background(), ownerAlice, "missing-id")
	require.Error(t, err)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

/*
TestService_Search verifies substring matching over title and content.
*/
func TestService_Search(t *testing.T) {
	service := newTestService()

	milk := mustCreate(t, service, ownerAlice, "Groceries", "Buy MILK today")
	mustCreate(t, service, ownerAlice, "Workout", "Leg day")
	mustCreate(t, service, ownerBob, "Milk delivery", "other owner")

	found, err := service.Search(context.Background(), ownerAlice, "mil")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, milk.ID, found[0].ID)

	// Wildcard characters in a query match literally, never as patterns.
	discount := mustCreate(t, service, ownerAlice, "Sale", "50% off everything")
	found, err = service.Search(context.Background(), ownerAlice, "50%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, discount.ID, found[0].ID)

	found, err = service.Search(context.Background(), ownerAlice, "5%o")
	require.NoError(t, err)
	assert.Empty(t, found)

	// Empty query is a validation error, not an empty result.
	_, err = service.Search(context.Background(), ownerAlice, "   ")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
}

/*
TestService_Update_Partial verifies omitted fields survive an update.
*/
func TestService_Update_Partial(t *testing.T) {
	service := newTestService()
	note := mustCreate(t, service, ownerAlice, "Original title", "Original content")

	updated, err := service.Update(context.Background(), ownerAlice, note.ID, notes.UpdateInput{
		Title: strptr("New title"),
	})
	require.NoError(t, err)

	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "Original content", updated.Content)
	assert.False(t, updated.UpdatedAt.Before(note.UpdatedAt))
}

/*
TestService_Update_Ownership verifies a foreign note is never mutated.
*/
func TestService_Update_Ownership(t *testing.T) {
	service := newTestService()
	note := mustCreate(t, service, ownerAlice, "Private", "secret")

	_, err := service.Update(context.Background(), ownerBob, note.ID, notes.UpdateInput{
		Title: strptr("Hijacked"),
	})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)

	// Untouched.
	fetched, err := service.Get(context.Background(), ownerAlice, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", fetched.Title)
}

/*
TestService_Update_Validation verifies a provided-but-empty field fails.
*/
func TestService_Update_Validation(t *testing.T) {
	service := newTestService()
	note := mustCreate(t, service, ownerAlice, "Title", "Content")

	_, err := service.Update(context.Background(), ownerAlice, note.ID, notes.UpdateInput{
		Title: strptr(""),
	})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
}

/*
TestService_ConfirmUpdate verifies the confirmation path shares Update's rules.
*/
func TestService_ConfirmUpdate(t *testing.T) {
	service := newTestService()
	note := mustCreate(t, service, ownerAlice, "Title", "Content")

	updated, err := service.ConfirmUpdate(context.Background(), ownerAlice, note.ID, notes.UpdateInput{
		Content: strptr("Confirmed content"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Confirmed content", updated.Content)

	// Same validation as the primary path.
	_, err = service.ConfirmUpdate(context.Background(), ownerAlice, note.ID, notes.UpdateInput{
		Title: strptr("   "),
	})
	assert.Error(t, err)
}

/*
TestService_Delete verifies removal and its ownership gate.
*/
func TestService_Delete(t *testing.T) {
	service := newTestService()
	note := mustCreate(t, service, ownerAlice, "Doomed", "bye")

	// A foreign delete is rejected.
	err := service.Delete(context.Background(), ownerBob, note.ID)
	require.Error(t, err)

	// The owner's delete succeeds, after which the note is gone.
	require.NoError(t, service.Delete(context.Background(), ownerAlice, note.ID))

	_, err = service.Get(context.Background(), ownerAlice, note.ID)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}
