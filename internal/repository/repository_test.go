package repository

import (
	"path/filepath"
	"testing"
	"time"

	"imagehub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Path: filepath.Join(t.TempDir(), "test.db"),
		},
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		t.Fatalf("Failed to create new repository: %v", err)
	}
	if err := repo.MigrateUp(); err != nil {
		t.Fatalf("Failed to apply test migrations: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return repo
}

func TestNewRepository(t *testing.T) {
	repo := setupTestDB(t)

	tables := []string{"sessions", "refresh_tokens"}
	for _, table := range tables {
		var name string
		err := repo.DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table '%s' was not created: %v", table, err)
		}
	}
}

func TestSessionCRUD(t *testing.T) {
	repo := setupTestDB(t)

	rec := &SessionRecord{ID: "01JTESTSESSION0000000000001"}
	require.NoError(t, repo.CreateSession(rec))
	assert.Equal(t, "empty", rec.State)

	got, err := repo.GetSession(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "empty", got.State)
	assert.Zero(t, got.Width)

	got.State = "ready"
	got.SourceFormat = "image/png"
	got.SourceName = "photo.png"
	got.Width, got.Height = 800, 600
	got.OriginalWidth, got.OriginalHeight = 4000, 3000
	require.NoError(t, repo.UpdateSession(got))

	updated, err := repo.GetSession(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "ready", updated.State)
	assert.Equal(t, "image/png", updated.SourceFormat)
	assert.Equal(t, 800, updated.Width)
	assert.Equal(t, 3000, updated.OriginalHeight)

	require.NoError(t, repo.DeleteSession(rec.ID))
	_, err = repo.GetSession(rec.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionNotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetSession("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, repo.UpdateSession(&SessionRecord{ID: "missing"}), ErrSessionNotFound)
	assert.ErrorIs(t, repo.DeleteSession("missing"), ErrSessionNotFound)
}

func TestListSessions(t *testing.T) {
	repo := setupTestDB(t)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.CreateSession(&SessionRecord{ID: id}))
	}

	records, err := repo.ListSessions(0)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	records, err = repo.ListSessions(2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestDeleteSessionsIdleSince(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.CreateSession(&SessionRecord{ID: "stale"}))
	require.NoError(t, repo.CreateSession(&SessionRecord{ID: "fresh"}))

	// Backdate the stale session.
	_, err := repo.DB.Exec("UPDATE sessions SET updated_at = ? WHERE id = ?",
		time.Now().Add(-2*time.Hour).Unix(), "stale")
	require.NoError(t, err)

	deleted, err := repo.DeleteSessionsIdleSince(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"stale"}, deleted)

	_, err = repo.GetSession("stale")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = repo.GetSession("fresh")
	assert.NoError(t, err)
}

func TestRefreshTokens(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.StoreRefreshToken("hash1", time.Now().Add(time.Hour)))
	assert.NoError(t, repo.ValidateRefreshToken("hash1"))

	assert.ErrorIs(t, repo.ValidateRefreshToken("unknown"), ErrTokenNotFound)

	// Expired tokens validate as missing and are swept away.
	require.NoError(t, repo.StoreRefreshToken("hash2", time.Now().Add(-time.Minute)))
	assert.ErrorIs(t, repo.ValidateRefreshToken("hash2"), ErrTokenNotFound)

	require.NoError(t, repo.DeleteRefreshToken("hash1"))
	assert.ErrorIs(t, repo.ValidateRefreshToken("hash1"), ErrTokenNotFound)
}
