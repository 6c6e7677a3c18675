package database

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// HideMessage marks a guest message as hidden by inserting a marker row.
// The underlying analytics row is never touched. Hiding an already-hidden
// message is a no-op; hiding a row that is not a message reports ErrNotFound.
func (db *DB) HideMessage(analyticsID int64) error {
	var exists bool
	err := db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM analytics WHERE id = ? AND event_type = 'message')`,
		analyticsID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check message: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO message_visibility (analytics_id) VALUES (?)`, analyticsID)
	if err != nil {
		return fmt.Errorf("failed to hide message: %w", err)
	}
	return nil
}

// UnhideMessage removes the visibility marker, restoring the message to the
// visible set. Unhiding a message with no marker is a no-op.
func (db *DB) UnhideMessage(analyticsID int64) error {
	_, err := db.Exec(`DELETE FROM message_visibility WHERE analytics_id = ?`, analyticsID)
	if err != nil {
		return fmt.Errorf("failed to unhide message: %w", err)
	}
	return nil
}

// VisibleMessages returns guest messages that have no visibility marker,
// newest first. Rows whose payload does not parse are skipped.
func (db *DB) VisibleMessages() ([]*GuestMessage, error) {
	rows, err := db.Query(`
		SELECT a.id, a.event_data, a.timestamp, i.slug
		FROM analytics a
		LEFT JOIN invitations i ON a.invitation_id = i.id
		LEFT JOIN message_visibility mv ON mv.analytics_id = a.id
		WHERE a.event_type = 'message' AND mv.analytics_id IS NULL
		ORDER BY a.timestamp DESC, a.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []*GuestMessage{}
	for rows.Next() {
		var (
			id        int64
			eventData *string
			timestamp string
			slug      *string
		)
		if err := rows.Scan(&id, &eventData, &timestamp, &slug); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		msg := &GuestMessage{AnalyticsID: id, InvitationSlug: slug, Timestamp: timestamp}
		if eventData == nil {
			continue
		}
		var data MessageData
		if err := json.Unmarshal([]byte(*eventData), &data); err != nil {
			log.Warn().Int64("analytics_id", id).Err(err).Msg("skipping malformed message payload")
			continue
		}
		msg.GuestName = data.GuestName
		if msg.GuestName == "" {
			msg.GuestName = "Anónimo"
		}
		msg.Message = data.Message
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return messages, nil
}
