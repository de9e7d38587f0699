// Package response writes the API's JSON envelopes. Successful responses
// wrap their payload in {"data": ...}; failures use {"error", "message",
// "code"}.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

type envelope struct {
	Data any `json:"data"`
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// JSON writes body as JSON with the given status code. A nil body writes
// the status line only.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already out; all we can do is log.
		log.Printf("[API] Encode response: %v", err)
	}
}

// Success writes a 200 response wrapping data in the standard envelope.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, envelope{Data: data})
}

// Error writes an error response for the given status code.
func Error(w http.ResponseWriter, status int, err error) {
	body := apiError{Error: http.StatusText(status), Code: status}
	if err != nil {
		body.Message = err.Error()
	}
	JSON(w, status, body)
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, err error) { Error(w, http.StatusBadRequest, err) }

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, err error) { Error(w, http.StatusNotFound, err) }

// InternalError writes a 500 response.
func InternalError(w http.ResponseWriter, err error) { Error(w, http.StatusInternalServerError, err) }

// ServiceUnavailable writes a 503 response.
func ServiceUnavailable(w http.ResponseWriter, err error) {
	Error(w, http.StatusServiceUnavailable, err)
}
