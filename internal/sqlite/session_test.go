package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionRepository_IsLive(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO sessions (id, expiry) VALUES (?, ?)`, "live", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sessions (id, expiry) VALUES (?, ?)`, "expired", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	repo := NewSessionRepository(db)

	live, err := repo.IsLive(ctx, "live")
	require.NoError(t, err)
	require.True(t, live)

	live, err = repo.IsLive(ctx, "expired")
	require.NoError(t, err)
	require.False(t, live)

	live, err = repo.IsLive(ctx, "unknown")
	require.NoError(t, err)
	require.False(t, live)

	live, err = repo.IsLive(ctx, "")
	require.NoError(t, err)
	require.False(t, live)
}

func TestAuditRepository_SessionUsedBy(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(
		`INSERT INTO view_log (username, session_id, page) VALUES (?, ?, ?)`,
		"luke1", "sess1", "index",
	)
	require.NoError(t, err)

	repo := NewAuditRepository(db)

	used, err := repo.SessionUsedBy(ctx, "sess1", "luke1")
	require.NoError(t, err)
	require.True(t, used)

	// The tie is per user, not per session alone.
	used, err = repo.SessionUsedBy(ctx, "sess1", "mallory")
	require.NoError(t, err)
	require.False(t, used)

	used, err = repo.SessionUsedBy(ctx, "other", "luke1")
	require.NoError(t, err)
	require.False(t, used)
}
