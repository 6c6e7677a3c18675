package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestUpdateSettingsRoundTrip(t *testing.T) {
	db := testDB(t)

	updated, err := db.UpdateSettings(SettingsParams{
		EventDate:           strptr("2026-11-21"),
		EventTime:           strptr("18:00"),
		RSVPEnabled:         true,
		RSVPDeadline:        strptr("2026-11-01"),
		RSVPPhone:           strptr("+525512345678"),
		RSVPWhatsapp:        strptr("+525512345678"),
		IsPublished:         true,
		ThankYouPageEnabled: true,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.EventDate)
	require.Equal(t, "2026-11-21", *updated.EventDate)
	require.True(t, updated.IsPublished)
	require.True(t, updated.ThankYouPageEnabled)

	// A second update fully replaces the row, nulling omitted fields.
	updated, err = db.UpdateSettings(SettingsParams{
		RSVPEnabled: false,
		IsPublished: false,
	})
	require.NoError(t, err)
	require.Nil(t, updated.EventDate)
	require.Nil(t, updated.RSVPPhone)
	require.False(t, updated.RSVPEnabled)

	// Still a single row.
	var count int64
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM invitation_settings`).Scan(&count))
	require.EqualValues(t, 1, count)
}

func TestGetPublicSettings(t *testing.T) {
	db := testDB(t)

	pub, err := db.GetPublicSettings()
	require.NoError(t, err)
	require.False(t, pub.IsPublished)
	require.Nil(t, pub.EventDate)

	_, err = db.UpdateSettings(SettingsParams{
		EventDate:   strptr("2026-11-21"),
		EventTime:   strptr("18:00"),
		RSVPEnabled: true,
		IsPublished: true,
	})
	require.NoError(t, err)

	pub, err = db.GetPublicSettings()
	require.NoError(t, err)
	require.True(t, pub.IsPublished)
	require.NotNil(t, pub.EventDate)
	require.Equal(t, "2026-11-21", *pub.EventDate)
}
