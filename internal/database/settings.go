package database

import (
	"database/sql"
	"errors"
	"fmt"
)

const settingsColumns = `id, event_date, event_time, rsvp_enabled, rsvp_deadline,
	rsvp_phone, rsvp_whatsapp, is_published, thank_you_page_enabled, created_at, updated_at`

func scanSettings(row interface{ Scan(...any) error }) (*Settings, error) {
	s := &Settings{}
	err := row.Scan(
		&s.ID, &s.EventDate, &s.EventTime, &s.RSVPEnabled, &s.RSVPDeadline,
		&s.RSVPPhone, &s.RSVPWhatsapp, &s.IsPublished, &s.ThankYouPageEnabled,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetSettings returns the singleton settings row, creating the default row
// if the table is somehow empty.
func (db *DB) GetSettings() (*Settings, error) {
	s, err := scanSettings(db.QueryRow(
		`SELECT ` + settingsColumns + ` FROM invitation_settings ORDER BY id DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		result, insertErr := db.Exec(
			`INSERT INTO invitation_settings (event_date, event_time, rsvp_enabled, is_published)
			 VALUES (NULL, NULL, 1, 0)`)
		if insertErr != nil {
			return nil, fmt.Errorf("failed to create default settings: %w", insertErr)
		}
		id, insertErr := result.LastInsertId()
		if insertErr != nil {
			return nil, fmt.Errorf("failed to get last insert id: %w", insertErr)
		}
		s, err = scanSettings(db.QueryRow(
			`SELECT `+settingsColumns+` FROM invitation_settings WHERE id = ?`, id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// SettingsParams carries the full replacement state for the settings row.
type SettingsParams struct {
	EventDate           *string
	EventTime           *string
	RSVPEnabled         bool
	RSVPDeadline        *string
	RSVPPhone           *string
	RSVPWhatsapp        *string
	IsPublished         bool
	ThankYouPageEnabled bool
}

// UpdateSettings replaces the singleton settings row.
func (db *DB) UpdateSettings(p SettingsParams) (*Settings, error) {
	current, err := db.GetSettings()
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(
		`UPDATE invitation_settings SET
			event_date = ?, event_time = ?, rsvp_enabled = ?, rsvp_deadline = ?,
			rsvp_phone = ?, rsvp_whatsapp = ?, is_published = ?, thank_you_page_enabled = ?,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.EventDate, p.EventTime, p.RSVPEnabled, p.RSVPDeadline,
		p.RSVPPhone, p.RSVPWhatsapp, p.IsPublished, p.ThankYouPageEnabled,
		current.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	return db.GetSettings()
}

// PublicSettings is the unauthenticated subset of the settings row.
type PublicSettings struct {
	IsPublished bool    `json:"is_published"`
	EventDate   *string `json:"event_date"`
	EventTime   *string `json:"event_time"`
}

// GetPublicSettings exposes only the publish flag and event date/time.
func (db *DB) GetPublicSettings() (*PublicSettings, error) {
	p := &PublicSettings{}
	err := db.QueryRow(
		`SELECT is_published, event_date, event_time FROM invitation_settings ORDER BY id DESC LIMIT 1`,
	).Scan(&p.IsPublished, &p.EventDate, &p.EventTime)
	if errors.Is(err, sql.ErrNoRows) {
		return &PublicSettings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get public settings: %w", err)
	}
	return p, nil
}
