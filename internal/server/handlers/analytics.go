package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julifest/invites/internal/database"
)

// bucketZone resolves the zone used for day bucketing: an explicit tz query
// param wins, otherwise the configured event timezone.
func bucketZone(s Server, r *http.Request) *time.Location {
	if name := r.URL.Query().Get("tz"); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return s.GetConfig().Timezone
}

// HandleAnalyticsDashboard runs the full aggregate set behind the analytics
// tab. Every load recomputes from the log; there is no caching layer.
func HandleAnalyticsDashboard(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := s.GetDB().Dashboard(bucketZone(s, r))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		WriteData(w, http.StatusOK, data)
	}
}

// HandleDashboardStats returns the headline stat cards plus the publish flag.
func HandleDashboardStats(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.GetDB().DashboardStats()
		if err != nil {
			writeStoreError(w, err)
			return
		}

		settings, err := s.GetDB().GetSettings()
		if err != nil {
			writeStoreError(w, err)
			return
		}

		WriteData(w, http.StatusOK, map[string]any{
			"totals":          stats.Totals,
			"recent":          stats.Recent,
			"top_invitations": stats.TopInvitations,
			"settings": map[string]any{
				"is_published": settings.IsPublished,
			},
		})
	}
}

// HandleRecentActivity returns a filtered, paginated activity feed.
func HandleRecentActivity(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit, offset := parsePagination(r, 50)

		entries, total, err := s.GetDB().RecentActivity(database.ActivityFilter{
			EventType: r.URL.Query().Get("eventType"),
			Slug:      r.URL.Query().Get("invite"),
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}

		WriteData(w, http.StatusOK, map[string]any{
			"activity":   entries,
			"pagination": NewPagination(page, limit, total),
		})
	}
}

// HandleTopInvitations lists active invitations by derived view count, with
// an optional state filter (viewed, not_viewed, confirmed, pending).
func HandleTopInvitations(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit, offset := parsePagination(r, 50)
		state := r.URL.Query().Get("state")

		switch state {
		case "", database.StateViewed, database.StateNotViewed, database.StateConfirmed, database.StatePending:
		default:
			WriteError(w, http.StatusBadRequest, "Filtro de estado inválido")
			return
		}

		invitations, total, err := s.GetDB().TopInvitationsByViews(state, limit, offset)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		WriteData(w, http.StatusOK, map[string]any{
			"invitations": invitations,
			"pagination":  NewPagination(page, limit, total),
		})
	}
}

// HandleFilterOptions lists the event types and invite slugs available as
// activity filters.
func HandleFilterOptions(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.GetDB().ActivityFilterOptions()
		if err != nil {
			writeStoreError(w, err)
			return
		}
		WriteData(w, http.StatusOK, opts)
	}
}

// HandleListMessages returns guest messages that are not hidden.
func HandleListMessages(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := s.GetDB().VisibleMessages()
		if err != nil {
			writeStoreError(w, err)
			return
		}
		WriteData(w, http.StatusOK, messages)
	}
}

type hideMessageRequest struct {
	AnalyticsID int64 `json:"analytics_id"`
}

// HandleHideMessage hides a guest message behind a visibility marker.
func HandleHideMessage(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req hideMessageRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.AnalyticsID <= 0 {
			WriteError(w, http.StatusBadRequest, "analytics_id requerido")
			return
		}

		if err := s.GetDB().HideMessage(req.AnalyticsID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "Mensaje no encontrado")
				return
			}
			writeStoreError(w, err)
			return
		}

		WriteJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// HandleUnhideMessage removes a message's visibility marker.
func HandleUnhideMessage(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.URL.Query().Get("analytics_id"), 10, 64)
		if err != nil || id <= 0 {
			WriteError(w, http.StatusBadRequest, "analytics_id requerido")
			return
		}

		if err := s.GetDB().UnhideMessage(id); err != nil {
			writeStoreError(w, err)
			return
		}

		WriteJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
