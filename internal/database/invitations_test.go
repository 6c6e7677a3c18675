package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAndGetInvitation(t *testing.T) {
	db := testDB(t)

	inv := seedInvitation(t, db, "julieta-fernandez")
	require.Equal(t, "julieta-fernandez", inv.Slug)
	require.Equal(t, 2, inv.NumberOfPasses)
	require.False(t, inv.IsConfirmed)
	require.True(t, inv.IsActive)
	require.Zero(t, inv.ViewCount)

	bySlug, err := db.GetInvitationBySlug("julieta-fernandez")
	require.NoError(t, err)
	require.Equal(t, inv.ID, bySlug.ID)

	_, err = db.GetInvitationByID(9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateInvitationDuplicateSlug(t *testing.T) {
	db := testDB(t)
	seedInvitation(t, db, "familia-lopez")

	_, err := db.CreateInvitation(InvitationParams{
		Slug:     "familia-lopez",
		Name:     "Otra",
		Lastname: "Familia",
		IsActive: true,
	})
	require.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestViewCountIsDerived(t *testing.T) {
	db := testDB(t)
	inv := seedInvitation(t, db, "contada")

	for i := 0; i < 3; i++ {
		seedEvent(t, db, &inv.ID, EventTypeView, nil)
	}
	// Non-view events never count as views.
	seedEvent(t, db, &inv.ID, EventTypeRSVPButtonClick, nil)

	got, err := db.GetInvitationByID(inv.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, got.ViewCount)
}

func TestListInvitationsPagination(t *testing.T) {
	db := testDB(t)
	for _, slug := range []string{"uno", "dos", "tres"} {
		seedInvitation(t, db, slug)
	}

	page, total, err := db.ListInvitations(2, 0)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, page, 2)

	rest, _, err := db.ListInvitations(2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
}

func TestUpdateInvitationSlugConflict(t *testing.T) {
	db := testDB(t)
	seedInvitation(t, db, "ocupado")
	inv := seedInvitation(t, db, "libre")

	// Keeping its own slug is never a conflict.
	updated, err := db.UpdateInvitation(inv.ID, InvitationParams{
		Slug:           "libre",
		Name:           "Julieta",
		Lastname:       "Fernández",
		NumberOfPasses: 4,
		IsActive:       true,
	})
	require.NoError(t, err)
	require.Equal(t, 4, updated.NumberOfPasses)

	_, err = db.UpdateInvitation(inv.ID, InvitationParams{
		Slug:     "ocupado",
		Name:     "Julieta",
		Lastname: "Fernández",
		IsActive: true,
	})
	require.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestSetConfirmedBySlug(t *testing.T) {
	db := testDB(t)
	inv := seedInvitation(t, db, "quince")

	require.NoError(t, db.SetConfirmedBySlug("quince", true))
	got, err := db.GetInvitationByID(inv.ID)
	require.NoError(t, err)
	require.True(t, got.IsConfirmed)

	// Confirming twice is a state no-op but still succeeds.
	require.NoError(t, db.SetConfirmedBySlug("quince", true))
	got, err = db.GetInvitationByID(inv.ID)
	require.NoError(t, err)
	require.True(t, got.IsConfirmed)

	require.NoError(t, db.SetConfirmedBySlug("quince", false))
	got, err = db.GetInvitationByID(inv.ID)
	require.NoError(t, err)
	require.False(t, got.IsConfirmed)

	require.ErrorIs(t, db.SetConfirmedBySlug("no-existe", true), ErrNotFound)
}

func TestSetConfirmedBySlugInactive(t *testing.T) {
	db := testDB(t)
	inv := seedInvitation(t, db, "apagada")

	_, err := db.UpdateInvitation(inv.ID, InvitationParams{
		Slug:           "apagada",
		Name:           "Julieta",
		Lastname:       "Fernández",
		NumberOfPasses: 2,
		IsActive:       false,
	})
	require.NoError(t, err)

	require.ErrorIs(t, db.SetConfirmedBySlug("apagada", true), ErrNotFound)
}

func TestDeleteInvitationCascades(t *testing.T) {
	db := testDB(t)
	inv := seedInvitation(t, db, "borrada")

	eventID := seedEvent(t, db, &inv.ID, EventTypeMessage, MessageData{GuestName: "Ana", Message: "Felicidades"})
	require.NoError(t, db.HideMessage(eventID))

	require.NoError(t, db.DeleteInvitation(inv.ID))

	_, err := db.GetInvitationByID(inv.ID)
	require.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM analytics WHERE invitation_id = ?`, inv.ID).Scan(&count))
	require.Zero(t, count)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM message_visibility WHERE analytics_id = ?`, eventID).Scan(&count))
	require.Zero(t, count)

	require.ErrorIs(t, db.DeleteInvitation(inv.ID), ErrNotFound)
}

func TestResolveInvitationID(t *testing.T) {
	db := testDB(t)
	inv := seedInvitation(t, db, "resuelta")

	id, err := db.ResolveInvitationID("resuelta")
	require.NoError(t, err)
	require.NotNil(t, id)
	require.Equal(t, inv.ID, *id)

	id, err = db.ResolveInvitationID("fantasma")
	require.NoError(t, err)
	require.Nil(t, id)
}
