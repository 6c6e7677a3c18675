package database

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEventDataVariants(t *testing.T) {
	raw := `{"slug":"quince","action":"confirm","is_confirmed":1,"timestamp":"2026-08-31 10:00:00"}`
	decoded, err := DecodeEventData(EventTypeConfirmationChange, &raw)
	require.NoError(t, err)
	change, ok := decoded.(*ConfirmationChangeData)
	require.True(t, ok)
	require.Equal(t, "confirm", change.Action)
	require.Equal(t, 1, change.IsConfirmed)

	msgRaw := `{"guest_name":"Ana","message":"Felicidades"}`
	decoded, err = DecodeEventData(EventTypeMessage, &msgRaw)
	require.NoError(t, err)
	msg, ok := decoded.(*MessageData)
	require.True(t, ok)
	require.Equal(t, "Ana", msg.GuestName)
}

func TestDecodeEventDataUnknownType(t *testing.T) {
	raw := `{"custom":"payload"}`
	decoded, err := DecodeEventData("page_scroll", &raw)
	require.NoError(t, err)

	// Unknown tags round-trip untouched.
	msg, ok := decoded.(json.RawMessage)
	require.True(t, ok)
	require.JSONEq(t, raw, string(msg))

	decoded, err = DecodeEventData("page_scroll", nil)
	require.NoError(t, err)
	require.Nil(t, decoded)
}

func TestDecodeEventDataMalformed(t *testing.T) {
	raw := `{broken`
	_, err := DecodeEventData(EventTypeMessage, &raw)
	require.Error(t, err)
}
