package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"noteshare/internal/models"
)

// PostgresNoteRepository implements note record persistence against a
// PostgreSQL database. Blob bytes live in the blob store; the two are
// correlated only through the storage_path column.
type PostgresNoteRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresNoteRepository creates a new PostgresNoteRepository with
// the given database connection.
func NewPostgresNoteRepository(db *sql.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{DB: db}
}

// noteColumns is the scan order shared by every note query.
const noteColumns = `id, owner_id, subject, caption, kind, storage_path, original_name, byte_size, media_type, target_url, created_at`

// Insert persists a new note record.
func (r *PostgresNoteRepository) Insert(ctx context.Context, note *models.Note) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO notes (id, owner_id, subject, caption, kind, storage_path, original_name, byte_size, media_type, target_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, note.ID, note.OwnerID, note.Subject, note.Caption, note.Kind,
		note.StoragePath, note.OriginalName, note.ByteSize, note.MediaType,
		note.TargetURL, note.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// GetByID fetches a single note. An unknown id reports models.ErrNotFound.
func (r *PostgresNoteRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	var note models.Note
	err := r.DB.QueryRowContext(ctx, `
		SELECT `+noteColumns+` FROM notes WHERE id = $1
	`, id).Scan(&note.ID, &note.OwnerID, &note.Subject, &note.Caption, &note.Kind,
		&note.StoragePath, &note.OriginalName, &note.ByteSize, &note.MediaType,
		&note.TargetURL, &note.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &note, nil
}

// ListPublic returns every note, newest first, with the owner's display
// name joined in.
func (r *PostgresNoteRepository) ListPublic(ctx context.Context) ([]models.PublicNote, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT n.id, n.owner_id, n.subject, n.caption, n.kind, n.storage_path, n.original_name, n.byte_size, n.media_type, n.target_url, n.created_at, u.name
		FROM notes n JOIN users u ON u.id = n.owner_id
		ORDER BY n.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list public notes: %w", err)
	}
	defer rows.Close()

	var notes []models.PublicNote
	for rows.Next() {
		var n models.PublicNote
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Subject, &n.Caption, &n.Kind,
			&n.StoragePath, &n.OriginalName, &n.ByteSize, &n.MediaType,
			&n.TargetURL, &n.CreatedAt, &n.OwnerName); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// ListByOwner returns the given owner's notes, newest first.
func (r *PostgresNoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Note, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+noteColumns+` FROM notes WHERE owner_id = $1 ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes by owner: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Subject, &n.Caption, &n.Kind,
			&n.StoragePath, &n.OriginalName, &n.ByteSize, &n.MediaType,
			&n.TargetURL, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// DeleteByID removes a note record. Deleting an id that is already gone
// reports models.ErrNotFound, which makes competing deletes for the
// same id resolve to exactly one success.
func (r *PostgresNoteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}
