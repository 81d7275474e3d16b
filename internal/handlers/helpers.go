package handlers

import (
	"encoding/json"
	"net/http"
)

// maxBodyBytes caps request bodies read by decodeJSON.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// Unavailable answers 503 for routes whose backing services were not configured at
// startup.
func Unavailable(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusServiceUnavailable, "Sign-in and saved productivity data are not available on this server.")
}
