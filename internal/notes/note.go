// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notes implements the note management domain.

It defines the core Note entity and the owner-scoped CRUD and search
operations over it. Every note belongs to exactly one user; reading,
updating, or deleting a note by identifier is only permitted to its owner.

# Architecture

  - Service: Orchestrates validation, ownership enforcement, and persistence.
  - Repository: Abstracted storage contract with PostgreSQL, in-memory, and
    Redis-cached implementations.
  - Handler: Thin HTTP delivery layer mounted behind the auth gate.
*/
package notes

import "time"

// # Domain Entities

// Note represents a single note owned by one user.
//
// OwnerID is immutable after creation. CreatedAt is set once; UpdatedAt is
// refreshed on every successful mutation.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

// Field names for validation and JSON mapping in the notes domain.
const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldQuery   = "query"
)
