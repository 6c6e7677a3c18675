package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, db *DB, username, role string) *AdminUser {
	t.Helper()

	u, err := db.CreateUser(UserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash-" + username,
		Role:         role,
		IsActive:     true,
	})
	require.NoError(t, err)
	return u
}

func TestCreateUserDuplicate(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "julieta", RoleAdmin)

	_, err := db.CreateUser(UserParams{
		Username:     "julieta",
		Email:        "otra@example.com",
		PasswordHash: "x",
		Role:         RoleEditor,
		IsActive:     true,
	})
	require.ErrorIs(t, err, ErrDuplicateUser)

	_, err = db.CreateUser(UserParams{
		Username:     "otra",
		Email:        "julieta@example.com",
		PasswordHash: "x",
		Role:         RoleEditor,
		IsActive:     true,
	})
	require.ErrorIs(t, err, ErrDuplicateUser)
}

func TestGetActiveUserSkipsInactive(t *testing.T) {
	db := testDB(t)
	u := seedUser(t, db, "dormida", RoleEditor)

	_, err := db.UpdateUser(u.ID, UserParams{
		Username: "dormida",
		Email:    "dormida@example.com",
		Role:     RoleEditor,
		IsActive: false,
	})
	require.NoError(t, err)

	_, err = db.GetActiveUserByID(u.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = db.GetActiveUserByUsername("dormida")
	require.ErrorIs(t, err, ErrNotFound)

	// The plain getter still sees the row.
	got, err := db.GetUserByID(u.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)
}

func TestUpdateUserKeepsPasswordWhenEmpty(t *testing.T) {
	db := testDB(t)
	u := seedUser(t, db, "editora", RoleEditor)

	updated, err := db.UpdateUser(u.ID, UserParams{
		Username: "editora",
		Email:    "editora@example.com",
		Role:     RoleAdmin,
		IsActive: true,
	})
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, updated.Role)
	require.Equal(t, "hash-editora", updated.PasswordHash)

	updated, err = db.UpdateUser(u.ID, UserParams{
		Username:     "editora",
		Email:        "editora@example.com",
		PasswordHash: "nuevo-hash",
		Role:         RoleAdmin,
		IsActive:     true,
	})
	require.NoError(t, err)
	require.Equal(t, "nuevo-hash", updated.PasswordHash)
}

func TestDeleteUserGuards(t *testing.T) {
	db := testDB(t)
	protected := seedUser(t, db, "admin", RoleAdmin)
	caller := seedUser(t, db, "segunda", RoleAdmin)
	editor := seedUser(t, db, "editora", RoleEditor)

	// The primary admin account cannot be deleted by anyone.
	require.ErrorIs(t, db.DeleteUser(protected.ID, caller.ID), ErrProtectedUser)

	// Nobody deletes their own account.
	require.ErrorIs(t, db.DeleteUser(caller.ID, caller.ID), ErrSelfDelete)

	// Two active admins: deleting one of them is allowed.
	require.NoError(t, db.DeleteUser(caller.ID, protected.ID))

	// Only one active admin left now; a second admin account in inactive
	// state would not help either.
	lastAdmin := seedUser(t, db, "ultima", RoleAdmin)
	_, err := db.UpdateUser(lastAdmin.ID, UserParams{
		Username: "ultima",
		Email:    "ultima@example.com",
		Role:     RoleAdmin,
		IsActive: false,
	})
	require.NoError(t, err)
	require.ErrorIs(t, db.DeleteUser(lastAdmin.ID, protected.ID), ErrLastAdmin)

	// Editors carry no admin-count guard.
	require.NoError(t, db.DeleteUser(editor.ID, protected.ID))

	require.ErrorIs(t, db.DeleteUser(9999, protected.ID), ErrNotFound)
}

func TestUpdatePassword(t *testing.T) {
	db := testDB(t)
	u := seedUser(t, db, "clave", RoleEditor)

	require.NoError(t, db.UpdatePassword(u.ID, "hash-nueva"))
	got, err := db.GetUserByID(u.ID)
	require.NoError(t, err)
	require.Equal(t, "hash-nueva", got.PasswordHash)

	require.ErrorIs(t, db.UpdatePassword(9999, "x"), ErrNotFound)
}

func TestTouchLastLogin(t *testing.T) {
	db := testDB(t)
	u := seedUser(t, db, "activa", RoleEditor)
	require.Nil(t, u.LastLogin)

	require.NoError(t, db.TouchLastLogin(u.ID))
	got, err := db.GetUserByID(u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
}
