package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// AuditRepository implements repository.AuditRepository over the page-view log
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// SessionUsedBy reports whether the view log ties sessionID to username
func (r *AuditRepository) SessionUsedBy(ctx context.Context, sessionID, username string) (bool, error) {
	query := `SELECT 1 FROM view_log WHERE username = ? AND session_id = ? LIMIT 1`

	var one int
	err := r.db.QueryRowContext(ctx, query, username, sessionID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check view log: %w", err)
	}
	return true, nil
}
