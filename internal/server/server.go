package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/julifest/invites/internal/auth"
	"github.com/julifest/invites/internal/config"
	"github.com/julifest/invites/internal/database"
	"github.com/julifest/invites/internal/server/handlers"
)

type Server struct {
	config *config.Config
	db     *database.DB
	auth   *auth.Service
	router chi.Router
}

// GetDB implements handlers.Server interface
func (s *Server) GetDB() *database.DB {
	return s.db
}

// GetConfig implements handlers.Server interface
func (s *Server) GetConfig() *config.Config {
	return s.config
}

// GetAuth implements handlers.Server interface
func (s *Server) GetAuth() *auth.Service {
	return s.auth
}

func New(cfg *config.Config, db *database.DB) *Server {
	s := &Server{
		config: cfg,
		db:     db,
		auth:   auth.NewService(cfg.JWTSecret),
		router: chi.NewRouter(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	s.router.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", handlers.HandleLogin(s))
		r.Post("/invitations/confirm", handlers.HandleConfirmInvitation(s))
		r.Post("/analytics", handlers.HandleTrackEvent(s))
		r.Get("/public/settings", handlers.HandlePublicSettings(s))
		r.Get("/client-info", handlers.HandleClientInfo(s))

		// Admin routes (bearer token)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/validate", handlers.HandleValidateToken(s))
			r.Post("/auth/change-password", handlers.HandleChangePassword(s))

			r.Get("/invitations", handlers.HandleListInvitations(s))
			r.Post("/invitations", handlers.HandleCreateInvitation(s))
			r.Get("/invitations/export", handlers.HandleExportInvitations(s))
			r.Get("/invitations/{id}", handlers.HandleGetInvitation(s))
			r.Put("/invitations/{id}", handlers.HandleUpdateInvitation(s))
			r.Delete("/invitations/{id}", handlers.HandleDeleteInvitation(s))

			r.Get("/settings", handlers.HandleGetSettings(s))
			r.Put("/settings", handlers.HandleUpdateSettings(s))

			r.Get("/dashboard/stats", handlers.HandleDashboardStats(s))
			r.Get("/analytics/dashboard", handlers.HandleAnalyticsDashboard(s))
			r.Get("/analytics/recent-activity", handlers.HandleRecentActivity(s))
			r.Get("/analytics/top-invitations", handlers.HandleTopInvitations(s))
			r.Get("/analytics/filter-options", handlers.HandleFilterOptions(s))
			r.Get("/analytics/messages", handlers.HandleListMessages(s))
			r.Post("/analytics/messages", handlers.HandleHideMessage(s))
			r.Delete("/analytics/messages", handlers.HandleUnhideMessage(s))
			r.Get("/analytics/export-messages", handlers.HandleExportMessages(s))

			// User management (admin role only)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)

				r.Get("/auth/users", handlers.HandleListUsers(s))
				r.Post("/auth/users", handlers.HandleCreateUser(s))
				r.Get("/auth/users/{id}", handlers.HandleGetUser(s))
				r.Put("/auth/users/{id}", handlers.HandleUpdateUser(s))
				r.Delete("/auth/users/{id}", handlers.HandleDeleteUser(s))
			})
		})
	})
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.router)
}
