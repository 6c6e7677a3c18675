package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/julifest/invites/internal/auth"
	"github.com/julifest/invites/internal/database"
)

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// HandleLogin authenticates an admin user and issues a bearer token. A
// sessions row mirroring the token expiry is written alongside.
func HandleLogin(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		if req.Username == "" || req.Password == "" {
			WriteError(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		user, err := s.GetDB().GetActiveUserByUsername(req.Username)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				WriteError(w, http.StatusUnauthorized, "Invalid username or password")
				return
			}
			writeStoreError(w, err)
			return
		}

		if !auth.CheckPassword(user.PasswordHash, req.Password) {
			WriteError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}

		ttl := s.GetConfig().SessionTTL
		if req.RememberMe {
			ttl = s.GetConfig().RememberMeTTL
		}
		expiresAt := time.Now().Add(ttl)

		session, err := s.GetDB().CreateSession(user.ID, expiresAt)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		if err := s.GetDB().TouchLastLogin(user.ID); err != nil {
			log.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to update last_login")
		}

		token, err := s.GetAuth().GenerateToken(user.ID, user.Username, user.Role, session.ID, expiresAt)
		if err != nil {
			log.Error().Err(err).Msg("failed to sign token")
			WriteError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"token":   token,
			"user": map[string]any{
				"id":       user.ID,
				"username": user.Username,
				"email":    user.Email,
				"role":     user.Role,
			},
			"expiresAt": expiresAt.UTC().Format(time.RFC3339),
		})
	}
}

// HandleValidateToken confirms that the caller's token still maps to a live
// account. The auth middleware has already done the work.
func HandleValidateToken(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Token is valid",
			"user": map[string]any{
				"id":       user.ID,
				"username": user.Username,
				"email":    user.Email,
				"role":     user.Role,
			},
		})
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// HandleChangePassword lets the authenticated user rotate their own password.
func HandleChangePassword(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())

		var req changePasswordRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
			WriteError(w, http.StatusBadRequest, "All fields are required")
			return
		}
		if req.NewPassword != req.ConfirmPassword {
			WriteError(w, http.StatusBadRequest, "New passwords do not match")
			return
		}
		if len(req.NewPassword) < 8 {
			WriteError(w, http.StatusBadRequest, "New password must be at least 8 characters long")
			return
		}
		if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
			WriteError(w, http.StatusBadRequest, "Current password is incorrect")
			return
		}

		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			log.Error().Err(err).Msg("failed to hash password")
			WriteError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		if err := s.GetDB().UpdatePassword(user.ID, hash); err != nil {
			writeStoreError(w, err)
			return
		}

		WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Password updated successfully",
		})
	}
}
