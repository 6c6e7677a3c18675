package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/julifest/invites/internal/database"
)

// utf8BOM makes Excel open the export with the right encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func writeCSVHeaders(w http.ResponseWriter, baseName string) {
	filename := fmt.Sprintf("%s_%s.csv", baseName, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(utf8BOM)
}

// localTimestamp shifts a stored UTC timestamp into the event timezone for
// the export. Unparseable values pass through as stored.
func localTimestamp(ts string, loc *time.Location) string {
	if loc == nil {
		return ts
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", ts, time.UTC)
	if err != nil {
		return ts
	}
	return t.In(loc).Format("2006-01-02 15:04:05")
}

func invitationState(inv *database.Invitation) string {
	switch {
	case !inv.IsActive:
		return "Inactiva"
	case inv.IsConfirmed:
		return "Confirmada"
	default:
		return "Pendiente"
	}
}

// HandleExportInvitations downloads the full guest list as CSV.
func HandleExportInvitations(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invitations, err := s.GetDB().AllInvitations()
		if err != nil {
			writeStoreError(w, err)
			return
		}

		writeCSVHeaders(w, "invitaciones")

		cw := csv.NewWriter(w)
		cw.Write([]string{
			"ID", "Nombre", "Apellido", "Slug", "Número de Pases",
			"Estado", "Vistas", "Fecha de Creación", "Última Actualización",
		})
		for _, inv := range invitations {
			cw.Write([]string{
				fmt.Sprintf("%d", inv.ID),
				inv.Name,
				inv.Lastname,
				inv.Slug,
				fmt.Sprintf("%d", inv.NumberOfPasses),
				invitationState(inv),
				fmt.Sprintf("%d", inv.ViewCount),
				inv.CreatedAt,
				inv.UpdatedAt,
			})
		}
		cw.Flush()
	}
}

// HandleExportMessages downloads the visible guest messages as CSV.
func HandleExportMessages(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := s.GetDB().VisibleMessages()
		if err != nil {
			writeStoreError(w, err)
			return
		}

		writeCSVHeaders(w, "mensajes")

		loc := s.GetConfig().Timezone

		cw := csv.NewWriter(w)
		cw.Write([]string{"Nombre del Invitado", "Mensaje", "Invitación", "Fecha"})
		for _, msg := range messages {
			slug := ""
			if msg.InvitationSlug != nil {
				slug = *msg.InvitationSlug
			}
			cw.Write([]string{msg.GuestName, msg.Message, slug, localTimestamp(msg.Timestamp, loc)})
		}
		cw.Flush()
	}
}
