package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateSession records a login session. The row mirrors the JWT expiry and
// is currently write-only: tokens are not revoked against it, the table
// exists so server-side invalidation can be added without a schema change.
func (db *DB) CreateSession(userID int64, expiresAt time.Time) (*Session, error) {
	id := uuid.NewString()
	expires := expiresAt.UTC().Format(time.RFC3339)

	_, err := db.Exec(
		`INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)`,
		id, userID, expires,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s := &Session{ID: id, UserID: userID, ExpiresAt: expires}
	err = db.QueryRow(`SELECT created_at FROM sessions WHERE id = ?`, id).Scan(&s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return s, nil
}
