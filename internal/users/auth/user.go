// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity layer of the Notable platform.

It defines the core domain entity (User) and the logic for registration,
credential verification, and token issuance.

# Architecture

This layer is the "Truth" of the system for identity. Entities defined here
have no external dependencies and encapsulate all business rules related to
account lifecycle.
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered member of the Notable platform.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldToken    = "token"
	FieldUser     = "user"
	FieldMessage  = "message"
)
