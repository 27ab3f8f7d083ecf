package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kredopay/otp-api/internal/domain"
	"github.com/kredopay/otp-api/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	token  string
	claims domain.SessionClaims
}

func (v *stubVerifier) Verify(token string) (domain.SessionClaims, error) {
	if token != v.token {
		return domain.SessionClaims{}, errors.New("invalid session token")
	}
	return v.claims, nil
}

func TestGetCurrent_NoClaims(t *testing.T) {
	h := NewSessionHandler()
	rr := httptest.NewRecorder()
	h.GetCurrent(rr, httptest.NewRequest(http.MethodGet, "/v1/sessions", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetCurrent_ThroughAuthMiddleware(t *testing.T) {
	issued := time.Now().UTC().Truncate(time.Second)
	v := &stubVerifier{
		token: "good",
		claims: domain.SessionClaims{
			Subject:   "alice@example.com",
			IssuedAt:  issued,
			ExpiresAt: issued.Add(30 * 24 * time.Hour),
		},
	}
	h := NewSessionHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	middleware.Auth(v)(http.HandlerFunc(h.GetCurrent)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp SessionEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "alice@example.com", resp.Subject)
	assert.Equal(t, issued.Add(30*24*time.Hour), resp.ExpiresAt.UTC())
}
