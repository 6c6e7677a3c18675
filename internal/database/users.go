package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// User roles. The editor role can manage invitations and settings but not
// other users.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

const userColumns = `id, username, email, password_hash, role, is_active, created_at, last_login`

func scanUser(row interface{ Scan(...any) error }) (*AdminUser, error) {
	u := &AdminUser{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UserParams carries caller-supplied fields for creating or updating an
// admin user. PasswordHash is optional on update.
type UserParams struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}

// CreateUser inserts a new admin user. Duplicate usernames or emails report
// ErrDuplicateUser.
func (db *DB) CreateUser(p UserParams) (*AdminUser, error) {
	var exists bool
	err := db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM admin_users WHERE username = ? OR email = ?)`,
		p.Username, p.Email,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	result, err := db.Exec(
		`INSERT INTO admin_users (username, email, password_hash, role, is_active)
		 VALUES (?, ?, ?, ?, ?)`,
		p.Username, p.Email, p.PasswordHash, p.Role, p.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return db.GetUserByID(id)
}

// GetUserByID retrieves a user regardless of active state.
func (db *DB) GetUserByID(id int64) (*AdminUser, error) {
	u, err := scanUser(db.QueryRow(`SELECT `+userColumns+` FROM admin_users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetActiveUserByID retrieves a user only if the account is still active.
// The auth middleware uses this so tokens die with the account.
func (db *DB) GetActiveUserByID(id int64) (*AdminUser, error) {
	u, err := scanUser(db.QueryRow(`SELECT `+userColumns+` FROM admin_users WHERE id = ? AND is_active = 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetActiveUserByUsername retrieves an active user for login.
func (db *DB) GetActiveUserByUsername(username string) (*AdminUser, error) {
	u, err := scanUser(db.QueryRow(`SELECT `+userColumns+` FROM admin_users WHERE username = ? AND is_active = 1`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// ListUsers returns all admin users, newest first.
func (db *DB) ListUsers() ([]*AdminUser, error) {
	rows, err := db.Query(`SELECT ` + userColumns + ` FROM admin_users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*AdminUser{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	return users, nil
}

// UpdateUser replaces a user's editable fields. An empty PasswordHash keeps
// the current hash. Username/email conflicts against other rows report
// ErrDuplicateUser.
func (db *DB) UpdateUser(id int64, p UserParams) (*AdminUser, error) {
	if _, err := db.GetUserByID(id); err != nil {
		return nil, err
	}

	var conflict bool
	err := db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM admin_users WHERE (username = ? OR email = ?) AND id != ?)`,
		p.Username, p.Email, id,
	).Scan(&conflict)
	if err != nil {
		return nil, fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	if conflict {
		return nil, ErrDuplicateUser
	}

	if p.PasswordHash != "" {
		_, err = db.Exec(
			`UPDATE admin_users SET username = ?, email = ?, role = ?, is_active = ?, password_hash = ? WHERE id = ?`,
			p.Username, p.Email, p.Role, p.IsActive, p.PasswordHash, id,
		)
	} else {
		_, err = db.Exec(
			`UPDATE admin_users SET username = ?, email = ?, role = ?, is_active = ? WHERE id = ?`,
			p.Username, p.Email, p.Role, p.IsActive, id,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return db.GetUserByID(id)
}

// UpdatePassword replaces a user's password hash.
func (db *DB) UpdatePassword(id int64, passwordHash string) error {
	result, err := db.Exec(`UPDATE admin_users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
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

// TouchLastLogin stamps last_login for a user. Called on login and on every
// successful token validation.
func (db *DB) TouchLastLogin(id int64) error {
	if _, err := db.Exec(`UPDATE admin_users SET last_login = CURRENT_TIMESTAMP WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// DeleteUser removes a user, enforcing the guard rails: the literal "admin"
// username is immortal, callers cannot delete themselves, and the last
// active admin-role user cannot be removed.
func (db *DB) DeleteUser(id, callerID int64) error {
	user, err := db.GetUserByID(id)
	if err != nil {
		return err
	}

	if strings.EqualFold(user.Username, "admin") {
		return ErrProtectedUser
	}
	if id == callerID {
		return ErrSelfDelete
	}

	if user.Role == RoleAdmin {
		var adminCount int64
		err := db.QueryRow(`SELECT COUNT(*) FROM admin_users WHERE role = 'admin' AND is_active = 1`).Scan(&adminCount)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if adminCount <= 1 {
			return ErrLastAdmin
		}
	}

	if _, err := db.Exec(`DELETE FROM admin_users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
