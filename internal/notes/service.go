// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/notable/internal/platform/apperr"
	"github.com/taibuivan/notable/internal/platform/validate"
	"github.com/taibuivan/notable/pkg/uuid"
)

// # Constraints

const (
	// MaxTitleLen bounds note titles to keep list payloads reasonable.
	MaxTitleLen = 200

	// MaxContentLen bounds note bodies.
	MaxContentLen = 50_000
)

// Service implements the note management use cases.
//
// It is the single place ownership is enforced: every read-by-id, update,
// and delete verifies that the requester's identity equals the note's owner
// before touching the store.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service] with its storage dependency.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// # Read Operations

/*
List returns all notes belonging to ownerID, newest-created first.

Parameters:
  - context: context.Context
  - ownerID: string (resolved identity from the auth gate)

Returns:
  - []*Note: The owner's notes (possibly empty, never nil)
  - error: Storage failures
*/
func (service *Service) List(context context.Context, ownerID string) ([]*Note, error) {
	result, err := service.repository.ListByOwner(context, ownerID)
	if err != nil {
		return nil, fmt.Errorf("notes_service_list_failed: %w", err)
	}
	return result, nil
}

/*
Get returns a single note after verifying ownership.

Description: An identifier that does not resolve is NotFound; a note owned
by someone else is Forbidden with a generic message — the distinction is
modeled, but the response never confirms what the hidden note contains.

Parameters:
  - context: context.Context
  - ownerID: string
  - id: string

Returns:
  - *Note: Hydrated entity
  - error: apperr.NotFound, apperr.Forbidden, or storage failures
*/
func (service *Service) Get(context context.Context, ownerID, id string) (*Note, error) {
	note, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if note.OwnerID != ownerID {
		return nil, apperr.Forbidden("Not authorized")
	}

	return note, nil
}

/*
Search returns the owner's notes matching query as a case-insensitive
substring of title or content.

Parameters:
  - context: context.Context
  - ownerID: string
  - query: string (required non-empty)

Returns:
  - []*Note: Matching notes, same ordering as List
  - error: Validation or storage failures
*/
func (service *Service) Search(context context.Context, ownerID, query string) ([]*Note, error) {
	if strings.TrimSpace(query) == "" {
		return nil, validate.RequiredError(FieldQuery, "Search query is required")
	}

	result, err := service.repository.SearchByOwner(context, ownerID, query)
	if err != nil {
		return nil, fmt.Errorf("notes_service_search_failed: %w", err)
	}
	return result, nil
}

// # Mutations

// CreateInput holds the data required to create a note.
type CreateInput struct {
	Title   string
	Content string
}

/*
Create validates and persists a new note owned by ownerID.

Parameters:
  - context: context.Context
  - ownerID: string
  - input: CreateInput (both fields required non-empty)

Returns:
  - *Note: Created entity with server-assigned ID and timestamps
  - error: Validation or storage failures
*/
func (service *Service) Create(context context.Context, ownerID string, input CreateInput) (*Note, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxTitleLen).
		Required(FieldContent, input.Content).
		MaxLen(FieldContent, input.Content, MaxContentLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Time-sortable ID keeps list ordering stable for same-instant creates.
	note := &Note{
		ID:      uuid.New(),
		Title:   input.Title,
		Content: input.Content,
		OwnerID: ownerID,
	}

	if err := service.repository.Create(context, note); err != nil {
		return nil, fmt.Errorf("notes_service_create_failed: %w", err)
	}

	return note, nil
}

// UpdateInput holds a partial update. A nil field is left unchanged.
type UpdateInput struct {
	Title   *string
	Content *string
}

/*
Update applies a partial update to an owned note.

Description: Verifies ownership first, then applies the field update and
refreshes the updated timestamp. Omitted fields are untouched. Concurrent
updates to the same note resolve as last-write-wins at the record level.

Parameters:
  - context: context.Context
  - ownerID: string
  - id: string
  - input: UpdateInput

Returns:
  - *Note: The note after the update
  - error: apperr.NotFound, apperr.Forbidden, validation or storage failures
*/
func (service *Service) Update(context context.Context, ownerID, id string, input UpdateInput) (*Note, error) {
	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, MaxTitleLen)
	}
	if input.Content != nil {
		validator.Required(FieldContent, *input.Content).MaxLen(FieldContent, *input.Content, MaxContentLen)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Ownership gate before any mutation: a foreign note must come back
	// Forbidden and must not be touched.
	if _, err := service.Get(context, ownerID, id); err != nil {
		return nil, err
	}

	note, err := service.repository.UpdateFields(context, id, input.Title, input.Content)
	if err != nil {
		return nil, err
	}

	return note, nil
}

/*
ConfirmUpdate re-applies an update through the secondary confirmation path.

Description: This backs the client's forced-update fallback, used only after
the primary update has already failed. It runs the exact same validation and
ownership checks as [Service.Update] — the fallback is a retry surface, not
a validation bypass.

Parameters:
  - context: context.Context
  - ownerID: string
  - id: string
  - input: UpdateInput

Returns:
  - *Note: The note after the update
  - error: Same failure modes as Update
*/
func (service *Service) ConfirmUpdate(context context.Context, ownerID, id string, input UpdateInput) (*Note, error) {
	return service.Update(context, ownerID, id, input)
}

/*
Delete removes an owned note.

Parameters:
  - context: context.Context
  - ownerID: string
  - id: string

Returns:
  - error: apperr.NotFound, apperr.Forbidden, or storage failures
*/
func (service *Service) Delete(context context.Context, ownerID, id string) error {
	if _, err := service.Get(context, ownerID, id); err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		return fmt.Errorf("notes_service_delete_failed: %w", err)
	}

	return nil
}
