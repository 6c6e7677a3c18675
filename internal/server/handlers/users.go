package handlers

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/julifest/invites/internal/auth"
	"github.com/julifest/invites/internal/database"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// validateUserRequest applies the shared field rules. Password rules only
// apply when a password is present; create handlers require one first.
func validateUserRequest(req *userRequest) string {
	if req.Username == "" || req.Email == "" {
		return "El nombre de usuario y email son requeridos"
	}
	if len(req.Username) < 3 || len(req.Username) > 20 {
		return "El nombre de usuario debe tener entre 3 y 20 caracteres"
	}
	if !emailPattern.MatchString(req.Email) {
		return "El formato del email no es válido"
	}
	if req.Role != database.RoleAdmin && req.Role != database.RoleEditor {
		return "El rol debe ser \"admin\" o \"editor\""
	}
	if req.Password != "" && len(req.Password) < 8 {
		return "La contraseña debe tener al menos 8 caracteres"
	}
	return ""
}

func parseUserID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// HandleListUsers returns every admin user, without password hashes.
func HandleListUsers(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := s.GetDB().ListUsers()
		if err != nil {
			writeStoreError(w, err)
			return
		}
		WriteData(w, http.StatusOK, users)
	}
}

// HandleCreateUser creates a new admin user.
func HandleCreateUser(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		if req.Password == "" {
			WriteError(w, http.StatusBadRequest, "El nombre de usuario, contraseña y email son requeridos")
			return
		}
		if msg := validateUserRequest(&req); msg != "" {
			WriteError(w, http.StatusBadRequest, msg)
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Error().Err(err).Msg("failed to hash password")
			WriteError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		user, err := s.GetDB().CreateUser(database.UserParams{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         req.Role,
			IsActive:     isActive,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}

		WriteJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "Usuario creado exitosamente",
			"user":    user,
		})
	}
}

// HandleGetUser returns one user by id.
func HandleGetUser(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseUserID(r)
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID de usuario inválido")
			return
		}

		user, err := s.GetDB().GetUserByID(id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		WriteData(w, http.StatusOK, user)
	}
}

// HandleUpdateUser replaces a user's fields; the password only changes when
// one is supplied.
func HandleUpdateUser(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseUserID(r)
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID de usuario inválido")
			return
		}

		var req userRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if msg := validateUserRequest(&req); msg != "" {
			WriteError(w, http.StatusBadRequest, msg)
			return
		}

		var hash string
		if req.Password != "" {
			var err error
			hash, err = auth.HashPassword(req.Password)
			if err != nil {
				log.Error().Err(err).Msg("failed to hash password")
				WriteError(w, http.StatusInternalServerError, "Error interno del servidor")
				return
			}
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		user, err := s.GetDB().UpdateUser(id, database.UserParams{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         req.Role,
			IsActive:     isActive,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}

		WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Usuario actualizado exitosamente",
			"user":    user,
		})
	}
}

// HandleDeleteUser deletes a user. The store enforces the guard rails:
// the "admin" username, self-deletion, and the last active admin.
func HandleDeleteUser(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseUserID(r)
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID de usuario inválido")
			return
		}

		caller := UserFromContext(r.Context())
		if err := s.GetDB().DeleteUser(id, caller.ID); err != nil {
			writeStoreError(w, err)
			return
		}

		WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Usuario eliminado exitosamente",
		})
	}
}
