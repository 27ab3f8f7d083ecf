package handler

import (
	"net/http"

	"github.com/kredopay/otp-api/internal/transport/http/middleware"
)

// SessionHandler serves introspection of the presented session credential.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler { return &SessionHandler{} }

// GetCurrent returns the subject and lifetime of the verified credential the
// auth middleware placed in the request context.
func (h *SessionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, SessionEnvelope{
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	})
}
