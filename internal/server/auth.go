package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/julifest/invites/internal/auth"
	"github.com/julifest/invites/internal/database"
	"github.com/julifest/invites/internal/server/handlers"
)

// requireAuth validates the bearer token and re-checks the account against
// the live admin_users table, so deactivating a user kills their tokens
// before expiry. Each successful validation refreshes last_login.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.ExtractBearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeUnauthorized(w, "No autorizado")
			return
		}

		claims, err := s.auth.ValidateToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				writeUnauthorized(w, "Token expirado")
				return
			}
			writeUnauthorized(w, "Token inválido")
			return
		}

		user, err := s.db.GetActiveUserByID(claims.UserID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				writeUnauthorized(w, "No autorizado")
				return
			}
			log.Error().Err(err).Msg("failed to load user for token validation")
			writeServerError(w)
			return
		}

		if err := s.db.TouchLastLogin(user.ID); err != nil {
			// Tracking only, the request proceeds.
			log.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to refresh last_login")
		}

		next.ServeHTTP(w, r.WithContext(handlers.WithUser(r.Context(), user)))
	})
}

// requireAdmin gates user management behind the admin role. Editors get 403.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := handlers.UserFromContext(r.Context())
		if user == nil {
			writeUnauthorized(w, "No autorizado")
			return
		}
		if user.Role != database.RoleAdmin {
			writeForbidden(w, "Acceso denegado. Se requieren permisos de administrador.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	handlers.WriteError(w, http.StatusUnauthorized, message)
}

func writeForbidden(w http.ResponseWriter, message string) {
	handlers.WriteError(w, http.StatusForbidden, message)
}

func writeServerError(w http.ResponseWriter) {
	handlers.WriteError(w, http.StatusInternalServerError, "Error interno del servidor")
}
