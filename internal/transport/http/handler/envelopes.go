package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kredopay/otp-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// TokenEnvelope wraps a freshly issued session credential.
type TokenEnvelope struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Subject     string    `json:"subject"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SessionEnvelope wraps current-session responses.
type SessionEnvelope struct {
	Subject   string    `json:"subject"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to status codes. When debug is true
// the wrapped detail is included in the body; production responses carry only
// the generic message.
func httpError(w http.ResponseWriter, err error, debug bool) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		status, msg = http.StatusBadRequest, "invalid request"
	case errors.Is(err, domain.ErrThrottled):
		status, msg = http.StatusTooManyRequests, "too many requests"
	case errors.Is(err, domain.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrNotifyFailed):
		status, msg = http.StatusBadGateway, "could not deliver the code"
	case errors.Is(err, domain.ErrUnavailable):
		status, msg = http.StatusInternalServerError, "temporary server error"
	}
	env := MessageEnvelope{Error: msg}
	if debug {
		env.Detail = err.Error()
	}
	writeJSON(w, status, env)
}
