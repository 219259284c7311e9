// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/notable/internal/platform/dberr"
)

// noteColumns is the canonical SELECT column list for note queries.
const noteColumns = "id, title, content, ownerid, createdat, updatedat"

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new note record into the notes.note table.

Parameters:
  - context: context.Context
  - note: *Note (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, note *Note) error {
	const query = `
		INSERT INTO notes.note (id, title, content, ownerid, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		note.ID,
		note.Title,
		note.Content,
		note.OwnerID,
		note.CreatedAt,
		note.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_note_repo_create_failed: %w", err), "Note")
	}

	return nil
}

/*
ListByOwner retrieves all notes owned by ownerID, newest-created first.

Parameters:
  - context: context.Context
  - ownerID: string

Returns:
  - []*Note: Ordered result set (possibly empty)
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListByOwner(context context.Context, ownerID string) ([]*Note, error) {
	const query = `
		SELECT ` + noteColumns + `
		FROM notes.note
		WHERE ownerid = $1
		ORDER BY createdat DESC`

	rows, err := repository.pool.Query(context, query, ownerID)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_note_repo_list_failed: %w", err), "Note")
	}
	defer rows.Close()

	return scanNotes(rows)
}

/*
FindByID retrieves a single note by its identifier.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Note: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Note, error) {
	const query = `
		SELECT ` + noteColumns + `
		FROM notes.note
		WHERE id = $1`

	note := &Note{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.OwnerID,
		&note.CreatedAt,
		&note.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Note")
	}

	return note, nil
}

/*
UpdateFields applies a partial update in a single atomic statement.

Description: COALESCE keeps omitted fields untouched while the row lock
serializes concurrent updates to the same note (last write wins).

Parameters:
  - context: context.Context
  - id: string
  - title: *string (nil = unchanged)
  - content: *string (nil = unchanged)

Returns:
  - *Note: The note after the update
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresRepository) UpdateFields(context context.Context, id string, title, content *string) (*Note, error) {
	const query = `
		UPDATE notes.note
		SET title = COALESCE($2, title),
		    content = COALESCE($3, content),
		    updatedat = NOW()
		WHERE id = $1
		RETURNING ` + noteColumns

	note := &Note{}
	err := repository.pool.QueryRow(context, query, id, title, content).Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.OwnerID,
		&note.CreatedAt,
		&note.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Note")
	}

	return note, nil
}

/*
Delete permanently removes a note row.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound when no row matched, or persistence failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM notes.note WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_note_repo_delete_failed: %w", err), "Note")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Note")
	}

	return nil
}

/*
SearchByOwner performs a case-insensitive substring match over title and
content, scoped to the owner, with the same ordering as ListByOwner.

Parameters:
  - context: context.Context
  - ownerID: string
  - query: string

Returns:
  - []*Note: Matching notes
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) SearchByOwner(context context.Context, ownerID, query string) ([]*Note, error) {
	const sql = `
		SELECT ` + noteColumns + `
		FROM notes.note
		WHERE ownerid = $1
		  AND (title ILIKE '%' || $2 || '%' OR content ILIKE '%' || $2 || '%')
		ORDER BY createdat DESC`

	rows, err := repository.pool.Query(context, sql, ownerID, escapeLikePattern(query))
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_note_repo_search_failed: %w", err), "Note")
	}
	defer rows.Close()

	return scanNotes(rows)
}

// escapeLikePattern neutralizes LIKE metacharacters so a user query matches
// literally, the same contract the in-memory store honors.
func escapeLikePattern(query string) string {
	return likeEscaper.Replace(query)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// scanNotes drains a row set into a slice of hydrated notes.
func scanNotes(rows pgx.Rows) ([]*Note, error) {
	result := make([]*Note, 0)

	for rows.Next() {
		note := &Note{}
		if err := rows.Scan(
			&note.ID,
			&note.Title,
			&note.Content,
			&note.OwnerID,
			&note.CreatedAt,
			&note.UpdatedAt,
		); err != nil {
			return nil, dberr.Wrap(fmt.Errorf("postgres_note_repo_scan_failed: %w", err), "Note")
		}
		result = append(result, note)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_note_repo_rows_failed: %w", err), "Note")
	}

	return result, nil
}
