// Package httpx provides the JSON response envelope shared by every API
// handler.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Envelope is the uniform success/failure wrapper. RequestID carries the
// correlation identifier assigned by the router middleware.
type Envelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Data      any       `json:"data,omitempty"`
	ErrorCode string    `json:"errorCode,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// OK sends a success envelope with the given status code.
func OK(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	writeJSON(w, status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: middleware.GetReqID(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

// Fail sends a failure envelope with the given status and error code.
func Fail(w http.ResponseWriter, r *http.Request, status int, message, code string) {
	writeJSON(w, status, Envelope{
		Success:   false,
		Message:   message,
		ErrorCode: code,
		RequestID: middleware.GetReqID(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
