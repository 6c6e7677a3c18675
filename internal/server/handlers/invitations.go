package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/julifest/invites/internal/database"
)

type invitationRequest struct {
	Slug              string  `json:"slug"`
	Name              string  `json:"name"`
	Lastname          string  `json:"lastname"`
	SecondaryName     *string `json:"secondary_name"`
	SecondaryLastname *string `json:"secondary_lastname"`
	NumberOfPasses    int     `json:"number_of_passes"`
	IsConfirmed       bool    `json:"is_confirmed"`
	IsActive          *bool   `json:"is_active"`
}

func (req *invitationRequest) toParams() database.InvitationParams {
	passes := req.NumberOfPasses
	if passes <= 0 {
		passes = 1
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return database.InvitationParams{
		Slug:              req.Slug,
		Name:              req.Name,
		Lastname:          req.Lastname,
		SecondaryName:     req.SecondaryName,
		SecondaryLastname: req.SecondaryLastname,
		NumberOfPasses:    passes,
		IsConfirmed:       req.IsConfirmed,
		IsActive:          active,
	}
}

func parseInvitationID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// HandleListInvitations returns a page of invitations with derived view
// counts. The list includes inactive invitations so admins can reactivate
// them.
func HandleListInvitations(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit, offset := parsePagination(r, 10)

		invitations, total, err := s.GetDB().ListInvitations(limit, offset)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if invitations == nil {
			invitations = []*database.Invitation{}
		}

		WriteJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"data":       invitations,
			"pagination": NewPagination(page, limit, total),
		})
	}
}

// HandleCreateInvitation creates a new invitation.
func HandleCreateInvitation(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req invitationRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		if req.Name == "" || req.Lastname == "" || req.Slug == "" {
			WriteError(w, http.StatusBadRequest, "El nombre, apellido y URL personalizada son requeridos")
			return
		}

		inv, err := s.GetDB().CreateInvitation(req.toParams())
		if err != nil {
			writeStoreError(w, err)
			return
		}

		WriteJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"data":    inv,
			"message": "Invitación creada exitosamente",
		})
	}
}

// HandleGetInvitation returns one invitation by id.
func HandleGetInvitation(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseInvitationID(r)
		if !ok {
			WriteError(w, http.StatusBadRequest, "El ID de la invitación es requerido")
			return
		}

		inv, err := s.GetDB().GetInvitationByID(id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		WriteData(w, http.StatusOK, inv)
	}
}

// HandleUpdateInvitation replaces an invitation's editable fields.
func HandleUpdateInvitation(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseInvitationID(r)
		if !ok {
			WriteError(w, http.StatusBadRequest, "El ID de la invitación es requerido")
			return
		}

		var req invitationRequest
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		if req.Name == "" || req.Lastname == "" || req.Slug == "" {
			WriteError(w, http.StatusBadRequest, "El nombre, apellido y URL personalizada son requeridos")
			return
		}

		inv, err := s.GetDB().UpdateInvitation(id, req.toParams())
		if err != nil {
			writeStoreError(w, err)
			return
		}

		WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    inv,
			"message": "Invitación actualizada exitosamente",
		})
	}
}

// HandleDeleteInvitation removes an invitation and its analytics history.
func HandleDeleteInvitation(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseInvitationID(r)
		if !ok {
			WriteError(w, http.StatusBadRequest, "El ID de la invitación es requerido")
			return
		}

		if err := s.GetDB().DeleteInvitation(id); err != nil {
			writeStoreError(w, err)
			return
		}

		WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Invitación eliminada exitosamente",
		})
	}
}
