// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notes

import "context"

// # Note Data Access

// Repository defines the data access contract for notes.
//
// All operations are single-record; no cross-note transactions are needed.
// Implementations must map "row does not exist" to apperr.NotFound and keep
// connectivity failures distinct (apperr.Internal), so callers can tell an
// empty result from a broken store.
type Repository interface {

	/*
		Create persists a brand-new note.

		Parameters:
		  - context: context.Context
		  - note: *Note (ID and OwnerID must be set; timestamps are initialized
		    by the store if zero)

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, note *Note) error

	/*
		ListByOwner returns all notes belonging to ownerID, newest-created first.

		Parameters:
		  - context: context.Context
		  - ownerID: string

		Returns:
		  - []*Note: Notes ordered by creation time descending
		  - error: Database retrieval failures
	*/
	ListByOwner(context context.Context, ownerID string) ([]*Note, error)

	/*
		FindByID returns the note with the given ID regardless of owner.
		Ownership is enforced in the service layer, which needs the owner of
		the stored row to distinguish not-found from forbidden.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Note: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Note, error)

	/*
		UpdateFields applies a partial update to the note. A nil field pointer
		leaves the stored value unchanged. UpdatedAt is refreshed atomically
		with the field write at the database-record level.

		Parameters:
		  - context: context.Context
		  - id: string
		  - title: *string (nil = unchanged)
		  - content: *string (nil = unchanged)

		Returns:
		  - *Note: The note after the update
		  - error: apperr.NotFound or persistence failures
	*/
	UpdateFields(context context.Context, id string, title, content *string) (*Note, error)

	/*
		Delete permanently removes the note. There is no soft-delete.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Delete(context context.Context, id string) error

	/*
		SearchByOwner returns the owner's notes whose title OR content contains
		query as a case-insensitive substring, same ordering as ListByOwner.

		Parameters:
		  - context: context.Context
		  - ownerID: string
		  - query: string (non-empty; validated by the service)

		Returns:
		  - []*Note: Matching notes, newest-created first
		  - error: Database retrieval failures
	*/
	SearchByOwner(context context.Context, ownerID, query string) ([]*Note, error)
}
