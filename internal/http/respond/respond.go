// Package respond centralizes JSON response writing so every handler emits
// the same shapes: payloads as-is, errors as {"error": ..., "code": ...}.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorBody is the wire shape of every error response. Code carries the
// machine-readable discriminator (e.g. P401 for a wrong transfer password)
// when one exists.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// JSON writes a payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	write(w, status, payload)
}

// Error writes an error response.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, ErrorBody{Error: message})
}

// ErrorCode writes an error response carrying a machine-readable code.
func ErrorCode(w http.ResponseWriter, status int, code, message string) {
	write(w, status, ErrorBody{Error: message, Code: code})
}

func write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("respond: encode payload failed", "error", err)
	}
}
