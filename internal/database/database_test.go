package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testDB opens a migrated in-memory database. The pool is capped at one
// connection, so the memory database survives for the whole test.
func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

func seedInvitation(t *testing.T, db *DB, slug string) *Invitation {
	t.Helper()

	inv, err := db.CreateInvitation(InvitationParams{
		Slug:           slug,
		Name:           "Julieta",
		Lastname:       "Fernández",
		NumberOfPasses: 2,
		IsActive:       true,
	})
	require.NoError(t, err)
	return inv
}

func seedEvent(t *testing.T, db *DB, invitationID *int64, eventType string, data any) int64 {
	t.Helper()

	encoded, err := EncodeEventData(data)
	require.NoError(t, err)

	id, err := db.AppendEvent(AppendEventParams{
		InvitationID: invitationID,
		EventType:    eventType,
		EventData:    encoded,
		IPAddress:    "203.0.113.7",
		UserAgent:    "test-agent",
	})
	require.NoError(t, err)
	return id
}

func TestMigrateSeedsSettings(t *testing.T) {
	db := testDB(t)

	settings, err := db.GetSettings()
	require.NoError(t, err)
	require.True(t, settings.RSVPEnabled)
	require.False(t, settings.IsPublished)
}
