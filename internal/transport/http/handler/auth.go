package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kredopay/otp-api/internal/domain"
	"github.com/kredopay/otp-api/internal/pkg/validate"
)

// invalidCodeMsg is the single message for every verify failure. Wrong code,
// expired code and unknown address are indistinguishable to the caller.
const invalidCodeMsg = "invalid or expired code"

// OTPService is what the auth endpoints require from the passcode manager.
type OTPService interface {
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (bool, error)
}

// SessionIssuer mints a credential for a just-verified email.
type SessionIssuer interface {
	Issue(email string) (string, domain.SessionClaims, error)
}

type RequestCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// AuthHandler handles the passcode request/verify endpoints.
type AuthHandler struct {
	otp    OTPService
	issuer SessionIssuer
	debug  bool
}

func NewAuthHandler(otp OTPService, issuer SessionIssuer, debug bool) *AuthHandler {
	return &AuthHandler{otp: otp, issuer: issuer, debug: debug}
}

func (h *AuthHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "request-code":
		h.requestCode(w, r)
	case "verify-code":
		h.verifyCode(w, r)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *AuthHandler) requestCode(w http.ResponseWriter, r *http.Request) {
	var req RequestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.otp.RequestCode(r.Context(), req.Email); err != nil {
		httpError(w, err, h.debug)
		return
	}
	// The code travels only through the notifier, never through the response.
	writeJSON(w, http.StatusAccepted, MessageEnvelope{Message: "code sent"})
}

func (h *AuthHandler) verifyCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ok, err := h.otp.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		httpError(w, err, h.debug)
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, invalidCodeMsg)
		return
	}
	token, claims, err := h.issuer.Issue(claimsSubject(req.Email))
	if err != nil {
		httpError(w, err, h.debug)
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{
		AccessToken: token,
		TokenType:   "Bearer",
		Subject:     claims.Subject,
		ExpiresAt:   claims.ExpiresAt,
	})
}

// claimsSubject normalizes the email the same way the store does, so the
// credential subject matches the stored identity.
func claimsSubject(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
