package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicing-app/internal/core"
	"invoicing-app/internal/rdbms"
)

func TestSessionStore_CreateAndResolve(t *testing.T) {
	db := newFakeDB()
	store := core.NewSessionStore(db, 24*time.Hour)

	token, err := store.Create(context.Background(), 7, "10.0.0.1", "curl/8.0")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, db.executed("INSERT INTO sessions VALUES ('"+token+"', 7,"))

	// Second token must differ from the first.
	other, err := store.Create(context.Background(), 7, "10.0.0.1", "curl/8.0")
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	db.on("FROM sessions s", rdbms.Row{
		"expires_at":   time.Now().UTC().Add(time.Hour).Format("2006-01-02 15:04:05"),
		"user_id":      float64(7),
		"username":     "demo",
		"email":        "demo@example.com",
		"full_name":    "Demo User",
		"company_name": "Demo Ltd",
	})
	ident, err := store.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 7, ident.UserID)
	assert.Equal(t, "demo", ident.Username)
}

func TestSessionStore_ResolveUnknownToken(t *testing.T) {
	store := core.NewSessionStore(newFakeDB(), 24*time.Hour)
	_, err := store.Resolve(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSessionStore_ResolveExpired(t *testing.T) {
	db := newFakeDB().on("FROM sessions s", rdbms.Row{
		"expires_at": time.Now().UTC().Add(-time.Minute).Format("2006-01-02 15:04:05"),
		"user_id":    float64(7),
		"username":   "demo",
	})
	store := core.NewSessionStore(db, 24*time.Hour)

	_, err := store.Resolve(context.Background(), "stale")
	assert.ErrorIs(t, err, core.ErrSessionExpired)
}

func TestSessionStore_InvalidateIsIdempotent(t *testing.T) {
	db := newFakeDB()
	store := core.NewSessionStore(db, 24*time.Hour)

	require.NoError(t, store.Invalidate(context.Background(), "whatever"))
	require.NoError(t, store.Invalidate(context.Background(), "whatever"))
	assert.True(t, db.executed("DELETE FROM sessions WHERE session_id = 'whatever'"))
}
