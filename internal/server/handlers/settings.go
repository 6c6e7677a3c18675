package handlers

import (
	"net/http"

	"github.com/julifest/invites/internal/database"
	"github.com/julifest/invites/internal/utils"
)

type settingsRequest struct {
	EventDate           *string `json:"event_date"`
	EventTime           *string `json:"event_time"`
	RSVPEnabled         *bool   `json:"rsvp_enabled"`
	RSVPDeadline        *string `json:"rsvp_deadline"`
	RSVPPhone           *string `json:"rsvp_phone"`
	RSVPWhatsapp        *string `json:"rsvp_whatsapp"`
	IsPublished         bool    `json:"is_published"`
	ThankYouPageEnabled bool    `json:"thank_you_page_enabled"`
}

// HandleGetSettings returns the singleton settings row, creating the
// default row when none exists yet.
func HandleGetSettings(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := s.GetDB().GetSettings()
		if err != nil {
			writeStoreError(w, err)
			return
		}
		WriteData(w, http.StatusOK, settings)
	}
}

// normalizeContact validates an RSVP contact number into E.164. Empty and
// nil values pass through untouched.
func normalizeContact(value *string) (*string, bool) {
	if value == nil || *value == "" {
		return value, true
	}
	normalized, err := utils.NormalizePhoneNumber(*value)
	if err != nil {
		return nil, false
	}
	return &normalized, true
}

// HandleUpdateSettings replaces the global settings applied to every
// invitation.
func HandleUpdateSettings(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req settingsRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		rsvpEnabled := true
		if req.RSVPEnabled != nil {
			rsvpEnabled = *req.RSVPEnabled
		}

		phone, ok := normalizeContact(req.RSVPPhone)
		if !ok {
			WriteError(w, http.StatusBadRequest, "El teléfono de RSVP no es válido")
			return
		}
		whatsapp, ok := normalizeContact(req.RSVPWhatsapp)
		if !ok {
			WriteError(w, http.StatusBadRequest, "El número de WhatsApp no es válido")
			return
		}

		settings, err := s.GetDB().UpdateSettings(database.SettingsParams{
			EventDate:           req.EventDate,
			EventTime:           req.EventTime,
			RSVPEnabled:         rsvpEnabled,
			RSVPDeadline:        req.RSVPDeadline,
			RSVPPhone:           phone,
			RSVPWhatsapp:        whatsapp,
			IsPublished:         req.IsPublished,
			ThankYouPageEnabled: req.ThankYouPageEnabled,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}

		WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    settings,
			"message": "Configuración actualizada exitosamente",
		})
	}
}
