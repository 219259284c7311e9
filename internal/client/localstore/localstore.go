// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package localstore provides the durable key/value storage used by the
Notable client.

It plays the role a browser's localStorage plays for the web client: a
small, always-available store for the session token, favorite markers, and
user settings. The SQLite implementation is the production store; the
in-memory implementation backs tests.
*/
package localstore

import (
	"context"
)

// # Well-Known Keys

// Keys shared with the web client. Changing one orphans previously stored
// data, so treat them as frozen.
const (
	KeyToken     = "token"
	KeyFavorites = "favoriteNotes"
	KeySettings  = "user-settings"
	KeyTheme     = "theme"
)

// Store defines the key/value contract for client-side persistence.
//
// A missing key is not an error: Get returns (nil, nil) so callers can
// distinguish "absent" from "store broken".
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
