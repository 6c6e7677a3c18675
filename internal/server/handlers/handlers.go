package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/julifest/invites/internal/auth"
	"github.com/julifest/invites/internal/config"
	"github.com/julifest/invites/internal/database"
)

// Server interface defines the methods needed by handlers
type Server interface {
	GetDB() *database.DB
	GetConfig() *config.Config
	GetAuth() *auth.Service
}

type contextKey string

const userContextKey contextKey = "admin_user"

// WithUser stashes the authenticated user in the request context.
func WithUser(ctx context.Context, user *database.AdminUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user, or nil on public routes.
func UserFromContext(ctx context.Context) *database.AdminUser {
	user, _ := ctx.Value(userContextKey).(*database.AdminUser)
	return user
}

// WriteJSON writes any payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// WriteError writes the {"error": ...} failure shape.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteData writes the {"success": true, "data": ...} envelope.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, map[string]any{"success": true, "data": data})
}

// Pagination echoes the page window back to the caller.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// parsePagination reads page/limit query params with a per-endpoint default
// page size. Limits are capped at 100.
func parsePagination(r *http.Request, defaultLimit int) (page, limit, offset int) {
	page = 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	limit = defaultLimit
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, (page - 1) * limit
}

// clientIP returns the requester's address. chi's RealIP middleware has
// already folded X-Forwarded-For / X-Real-IP into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
	return host
}

func userAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return "unknown"
}

// decodeJSON parses a request body, reporting 400-worthy errors.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("cuerpo de la petición inválido")
	}
	return nil
}

// writeStoreError maps store sentinel errors onto the HTTP taxonomy;
// anything unrecognized is logged and reported as a 500.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Recurso no encontrado")
	case errors.Is(err, database.ErrDuplicateSlug):
		WriteError(w, http.StatusConflict, "La URL personalizada ya existe. Por favor elige una URL diferente.")
	case errors.Is(err, database.ErrDuplicateUser):
		WriteError(w, http.StatusConflict, "El nombre de usuario o email ya existe")
	case errors.Is(err, database.ErrProtectedUser):
		WriteError(w, http.StatusBadRequest, "No se puede eliminar el usuario administrador principal del sistema")
	case errors.Is(err, database.ErrSelfDelete):
		WriteError(w, http.StatusBadRequest, "No puedes eliminar tu propia cuenta de usuario")
	case errors.Is(err, database.ErrLastAdmin):
		WriteError(w, http.StatusBadRequest, "No se puede eliminar el último administrador del sistema")
	default:
		log.Error().Err(err).Msg("request failed")
		WriteError(w, http.StatusInternalServerError, "Error interno del servidor")
	}
}
