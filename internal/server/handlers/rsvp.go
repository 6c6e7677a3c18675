package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/julifest/invites/internal/database"
)

type confirmRequest struct {
	Slug   string `json:"slug"`
	Action string `json:"action"`
}

// HandleConfirmInvitation is the public RSVP toggle. It flips is_confirmed
// for the active invitation matching the slug and appends a
// confirmation-change event either way: repeated confirms are state no-ops
// that still extend the audit trail.
func HandleConfirmInvitation(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req confirmRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		if req.Slug == "" {
			WriteError(w, http.StatusBadRequest, "Slug de invitación requerido")
			return
		}
		if req.Action != "confirm" && req.Action != "unconfirm" {
			WriteError(w, http.StatusBadRequest, "Acción requerida: confirm o unconfirm")
			return
		}

		confirmed := req.Action == "confirm"
		if err := s.GetDB().SetConfirmedBySlug(req.Slug, confirmed); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "Invitación no encontrada")
				return
			}
			writeStoreError(w, err)
			return
		}

		isConfirmed := 0
		if confirmed {
			isConfirmed = 1
		}

		// A failed log entry never fails the toggle itself.
		invitationID, err := s.GetDB().ResolveInvitationID(req.Slug)
		if err != nil {
			log.Warn().Err(err).Str("slug", req.Slug).Msg("failed to resolve invitation for analytics")
		}
		data, err := database.EncodeEventData(database.ConfirmationChangeData{
			Slug:        req.Slug,
			Action:      req.Action,
			IsConfirmed: isConfirmed,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		})
		if err == nil {
			_, err = s.GetDB().AppendEvent(database.AppendEventParams{
				InvitationID: invitationID,
				EventType:    database.EventTypeConfirmationChange,
				EventData:    data,
				IPAddress:    clientIP(r),
				UserAgent:    userAgent(r),
			})
		}
		if err != nil {
			log.Error().Err(err).Str("slug", req.Slug).Msg("failed to log confirmation event")
		}

		message := "Invitación confirmada exitosamente"
		if !confirmed {
			message = "Invitación desconfirmada exitosamente"
		}

		WriteJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"message":      message,
			"action":       req.Action,
			"is_confirmed": isConfirmed,
		})
	}
}

type trackEventRequest struct {
	InvitationID *int64          `json:"invitation_id"`
	Slug         string          `json:"slug"`
	EventType    string          `json:"event_type"`
	EventData    json.RawMessage `json:"event_data"`
	UserAgent    string          `json:"user_agent"`
	Referrer     *string         `json:"referrer"`
}

// HandleTrackEvent is the public analytics ingest. Unknown slugs are stored
// with a NULL invitation id rather than rejected.
func HandleTrackEvent(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trackEventRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		if req.EventType == "" {
			WriteError(w, http.StatusBadRequest, "Tipo de evento es requerido")
			return
		}

		invitationID := req.InvitationID
		if invitationID == nil && req.Slug != "" {
			resolved, err := s.GetDB().ResolveInvitationID(req.Slug)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			invitationID = resolved
		}

		var eventData *string
		if len(req.EventData) > 0 {
			raw := string(req.EventData)
			eventData = &raw
		}

		ua := req.UserAgent
		if ua == "" {
			ua = userAgent(r)
		}

		_, err := s.GetDB().AppendEvent(database.AppendEventParams{
			InvitationID: invitationID,
			EventType:    req.EventType,
			EventData:    eventData,
			IPAddress:    clientIP(r),
			UserAgent:    ua,
			Referrer:     req.Referrer,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}

		WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Analytics registrado exitosamente",
		})
	}
}
