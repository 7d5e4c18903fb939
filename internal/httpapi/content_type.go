package httpapi

import (
	"net/http"
	"strings"
)

// requireJSON rejects a request whose Content-Type names anything other than
// application/json (params allowed) with 415. A missing header is read as JSON.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return true
	}
	mime := strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	if mime != "application/json" {
		writeErr(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "unsupported_media_type")
		return false
	}
	return true
}
