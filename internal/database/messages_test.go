package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHideAndUnhideMessage(t *testing.T) {
	db := testDB(t)
	inv := seedInvitation(t, db, "mensajes")

	msgID := seedEvent(t, db, &inv.ID, EventTypeMessage, MessageData{GuestName: "Carlos", Message: "Nos vemos"})

	visible, err := db.VisibleMessages()
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, "Carlos", visible[0].GuestName)
	require.Equal(t, "Nos vemos", visible[0].Message)
	require.NotNil(t, visible[0].InvitationSlug)
	require.Equal(t, "mensajes", *visible[0].InvitationSlug)

	require.NoError(t, db.HideMessage(msgID))
	// Hiding twice is a no-op.
	require.NoError(t, db.HideMessage(msgID))

	visible, err = db.VisibleMessages()
	require.NoError(t, err)
	require.Empty(t, visible)

	require.NoError(t, db.UnhideMessage(msgID))
	visible, err = db.VisibleMessages()
	require.NoError(t, err)
	require.Len(t, visible, 1)
}

func TestHideMessageNotAMessage(t *testing.T) {
	db := testDB(t)
	inv := seedInvitation(t, db, "vistas")

	viewID := seedEvent(t, db, &inv.ID, EventTypeView, nil)

	require.ErrorIs(t, db.HideMessage(viewID), ErrNotFound)
	require.ErrorIs(t, db.HideMessage(9999), ErrNotFound)
	// Unhiding an unmarked row is fine.
	require.NoError(t, db.UnhideMessage(viewID))
}

func TestVisibleMessagesAnonymousAndMalformed(t *testing.T) {
	db := testDB(t)
	inv := seedInvitation(t, db, "anonimos")

	seedEvent(t, db, &inv.ID, EventTypeMessage, MessageData{Message: "Sin nombre"})

	// A message row whose payload is not valid JSON is skipped, not fatal.
	broken := "{not json"
	_, err := db.AppendEvent(AppendEventParams{
		InvitationID: &inv.ID,
		EventType:    EventTypeMessage,
		EventData:    &broken,
		IPAddress:    "203.0.113.7",
		UserAgent:    "test-agent",
	})
	require.NoError(t, err)

	visible, err := db.VisibleMessages()
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, "Anónimo", visible[0].GuestName)
	require.Equal(t, "Sin nombre", visible[0].Message)
}
