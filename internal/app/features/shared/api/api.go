// Package api holds the JSON plumbing shared by the feature handlers.
package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Respond writes v as a JSON body with the given status code.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes a JSON error body: {"error": "..."}.
func Error(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, map[string]string{"error": msg})
}

// Decode reads the request body into dst. On failure it writes a 400 and
// returns false; handlers should return immediately.
func Decode(w http.ResponseWriter, r *http.Request, dst any, log *zap.Logger) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if log != nil {
			log.Debug("bad request body", zap.Error(err))
		}
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
