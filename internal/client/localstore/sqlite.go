// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements [Store] on a single-file SQLite database.
//
// One row per key. Writes are upserts, so Set is idempotent and safe to
// call on every state change.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the store at path and ensures the kv table
// exists. Use ":memory:" for a throwaway store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("localstore_open_failed: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("localstore_schema_failed: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the stored value, or (nil, nil) when the key is absent.
func (store *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := store.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("localstore_get_failed[%s]: %w", key, err)
	}
	return value, nil
}

// Set stores the value under key, replacing any previous value.
func (store *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := store.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("localstore_set_failed[%s]: %w", key, err)
	}
	return nil
}

// Delete removes the key. Deleting an absent key is a no-op.
func (store *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := store.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("localstore_delete_failed[%s]: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (store *SQLiteStore) Close() error {
	return store.db.Close()
}
