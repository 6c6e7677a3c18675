package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// InvitationParams carries the caller-supplied fields for creating or
// updating an invitation.
type InvitationParams struct {
	Slug              string
	Name              string
	Lastname          string
	SecondaryName     *string
	SecondaryLastname *string
	NumberOfPasses    int
	IsConfirmed       bool
	IsActive          bool
}

const invitationSelect = `
	SELECT
		i.id, i.slug, i.name, i.lastname, i.secondary_name, i.secondary_lastname,
		i.number_of_passes, i.is_confirmed, i.is_active, i.created_at, i.updated_at,
		COALESCE(COUNT(a.id), 0) AS view_count
	FROM invitations i
	LEFT JOIN analytics a ON i.id = a.invitation_id AND a.event_type = 'view'`

func scanInvitation(row interface{ Scan(...any) error }) (*Invitation, error) {
	inv := &Invitation{}
	err := row.Scan(
		&inv.ID, &inv.Slug, &inv.Name, &inv.Lastname, &inv.SecondaryName, &inv.SecondaryLastname,
		&inv.NumberOfPasses, &inv.IsConfirmed, &inv.IsActive, &inv.CreatedAt, &inv.UpdatedAt,
		&inv.ViewCount,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// CreateInvitation inserts a new invitation. The slug must be unique across
// all invitations, active or not.
func (db *DB) CreateInvitation(p InvitationParams) (*Invitation, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM invitations WHERE slug = ?)`, p.Slug).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	if exists {
		return nil, ErrDuplicateSlug
	}

	result, err := db.Exec(
		`INSERT INTO invitations (slug, name, lastname, secondary_name, secondary_lastname, number_of_passes, is_confirmed, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Name, p.Lastname, p.SecondaryName, p.SecondaryLastname, p.NumberOfPasses, p.IsConfirmed, p.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return db.GetInvitationByID(id)
}

// GetInvitationByID retrieves an invitation with its derived view count.
func (db *DB) GetInvitationByID(id int64) (*Invitation, error) {
	inv, err := scanInvitation(db.QueryRow(invitationSelect+`
		WHERE i.id = ?
		GROUP BY i.id`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// GetInvitationBySlug retrieves an invitation by slug.
func (db *DB) GetInvitationBySlug(slug string) (*Invitation, error) {
	inv, err := scanInvitation(db.QueryRow(invitationSelect+`
		WHERE i.slug = ?
		GROUP BY i.id`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// ResolveInvitationID maps a slug to an invitation id. Returns nil when the
// slug does not resolve, so analytics for unknown slugs can still be stored
// with a NULL invitation_id.
func (db *DB) ResolveInvitationID(slug string) (*int64, error) {
	var id int64
	err := db.QueryRow(`SELECT id FROM invitations WHERE slug = ?`, slug).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve slug: %w", err)
	}
	return &id, nil
}

// ListInvitations returns a page of invitations (newest first) with derived
// view counts, plus the total row count for pagination.
func (db *DB) ListInvitations(limit, offset int) ([]*Invitation, int64, error) {
	var total int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM invitations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invitations: %w", err)
	}

	rows, err := db.Query(invitationSelect+`
		GROUP BY i.id
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read invitations: %w", err)
	}

	return invitations, total, nil
}

// AllInvitations returns every invitation (newest first) with derived view
// counts, for exports.
func (db *DB) AllInvitations() ([]*Invitation, error) {
	rows, err := db.Query(invitationSelect + `
		GROUP BY i.id
		ORDER BY i.created_at DESC, i.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read invitations: %w", err)
	}

	return invitations, nil
}

// UpdateInvitation replaces the editable fields of an invitation. Slug
// conflicts against other rows surface as ErrDuplicateSlug.
func (db *DB) UpdateInvitation(id int64, p InvitationParams) (*Invitation, error) {
	var conflict bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM invitations WHERE slug = ? AND id != ?)`, p.Slug, id).Scan(&conflict)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	if conflict {
		return nil, ErrDuplicateSlug
	}

	result, err := db.Exec(
		`UPDATE invitations
		 SET slug = ?, name = ?, lastname = ?, secondary_name = ?, secondary_lastname = ?,
		     number_of_passes = ?, is_confirmed = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.Slug, p.Name, p.Lastname, p.SecondaryName, p.SecondaryLastname,
		p.NumberOfPasses, p.IsConfirmed, p.IsActive, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return db.GetInvitationByID(id)
}

// SetConfirmedBySlug flips is_confirmed for the active invitation with the
// given slug. Inactive and unknown slugs report ErrNotFound. The write is
// last-writer-wins: concurrent toggles for one slug are not synchronized.
func (db *DB) SetConfirmedBySlug(slug string, confirmed bool) error {
	result, err := db.Exec(
		`UPDATE invitations SET is_confirmed = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE slug = ? AND is_active = 1`,
		confirmed, slug,
	)
	if err != nil {
		return fmt.Errorf("failed to update confirmation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteInvitation removes an invitation and everything hanging off it:
// analytics rows and their visibility markers.
func (db *DB) DeleteInvitation(id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM invitations WHERE id = ?)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check invitation: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	_, err = tx.Exec(
		`DELETE FROM message_visibility
		 WHERE analytics_id IN (SELECT id FROM analytics WHERE invitation_id = ?)`, id)
	if err != nil {
		return fmt.Errorf("failed to delete visibility markers: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM analytics WHERE invitation_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete analytics: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM invitations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
