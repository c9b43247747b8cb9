package server

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeRedirect is the API shape of a page redirect: the client is expected
// to navigate to the hinted view and re-fetch state there.
func writeRedirect(w http.ResponseWriter, status int, msg, to string) {
	writeJSON(w, status, map[string]string{"error": msg, "redirect": to})
}
