package handlers

import (
	"net/http"
	"time"
)

// HandlePublicSettings exposes the publish flag and event date to the
// unauthenticated invitation pages.
func HandlePublicSettings(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := s.GetDB().GetPublicSettings()
		if err != nil {
			writeStoreError(w, err)
			return
		}
		WriteData(w, http.StatusOK, settings)
	}
}

// HandleClientInfo echoes back the request metadata the invitation pages
// attach to analytics events.
func HandleClientInfo(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteData(w, http.StatusOK, map[string]any{
			"ip":             clientIP(r),
			"userAgent":      userAgent(r),
			"referer":        r.Referer(),
			"acceptLanguage": r.Header.Get("Accept-Language"),
			"host":           r.Host,
			"origin":         r.Header.Get("Origin"),
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
		})
	}
}
