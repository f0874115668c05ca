package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SessionRepository implements repository.SessionRepository for SQLite
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// IsLive reports whether a session exists and has not expired
func (r *SessionRepository) IsLive(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}

	query := `SELECT 1 FROM sessions WHERE id = ? AND expiry > ?`

	var one int
	err := r.db.QueryRowContext(ctx, query, sessionID, time.Now()).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return true, nil
}
