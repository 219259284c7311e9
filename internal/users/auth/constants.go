// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Token Lifetimes

const (
	// AccessTokenTTL is the lifetime of a signed access token. Clients are
	// expected to re-authenticate after it elapses.
	AccessTokenTTL = 24 * time.Hour
)

// # Validation Limits

const (
	// MinPasswordLen is the minimum accepted password length at registration.
	MinPasswordLen = 6

	// MaxNameLen caps the display name to keep storage and rendering sane.
	MaxNameLen = 100
)
