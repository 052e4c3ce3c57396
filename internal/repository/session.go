package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"noteshare/internal/models"
)

// PostgresSessionRepository implements identity token persistence
// against a PostgreSQL database. Only token hashes are stored.
type PostgresSessionRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository
// with the given database connection.
func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{DB: db}
}

// CreateSession persists a newly issued session.
func (r *PostgresSessionRepository) CreateSession(ctx context.Context, session *models.Session) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO sessions (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`, session.TokenHash, session.UserID, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// UserIDByTokenHash resolves a token hash to its user id. Unknown and
// expired tokens both report models.ErrUnauthorized.
func (r *PostgresSessionRepository) UserIDByTokenHash(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := r.DB.QueryRowContext(ctx, `
		SELECT user_id FROM sessions WHERE token_hash = $1 AND expires_at > now()
	`, tokenHash).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("user by token: %w", err)
	}
	return userID, nil
}

// DeleteExpired removes sessions past their expiry and returns how many
// rows were reaped.
func (r *PostgresSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows, nil
}
