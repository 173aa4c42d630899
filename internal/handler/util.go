// Package handler provides the HTTP handlers of the studio server.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/capitalize-ai/question-studio/internal/gateway"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeGatewayError maps a failed generation service call to a response.
// Client errors reported by the service keep their status; everything else
// is a bad gateway.
func writeGatewayError(w http.ResponseWriter, err error) {
	var gwErr *gateway.Error
	if !errors.As(err, &gwErr) {
		writeError(w, http.StatusBadGateway, gateway.DefaultFallback)
		return
	}
	status := http.StatusBadGateway
	if gwErr.StatusCode >= 400 && gwErr.StatusCode < 500 {
		status = gwErr.StatusCode
	}
	writeError(w, status, gwErr.Message)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
