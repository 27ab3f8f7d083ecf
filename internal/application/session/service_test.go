package session

import (
	"errors"
	"testing"
	"time"

	"github.com/kredopay/otp-api/internal/domain"
	jwtinfra "github.com/kredopay/otp-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, expiry time.Duration) *Service {
	t.Helper()
	p, err := jwtinfra.NewProvider("test-secret", expiry)
	require.NoError(t, err)
	return NewService(p)
}

func TestIssueThenVerify_RoundTrip(t *testing.T) {
	svc := newTestService(t, 30*24*time.Hour)

	token, claims, err := svc.Issue("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.WithinDuration(t, claims.IssuedAt.Add(30*24*time.Hour), claims.ExpiresAt, time.Second)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Subject)
	assert.WithinDuration(t, claims.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := newTestService(t, time.Hour)
	token, _, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	p, err := jwtinfra.NewProvider("different-secret", time.Hour)
	require.NoError(t, err)
	other := NewService(p)

	_, err = other.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestService(t, -time.Minute) // already expired at issuance
	token, _, err := svc.Issue("alice@example.com")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestVerify_Garbage(t *testing.T) {
	svc := newTestService(t, time.Hour)
	_, err := svc.Verify("not-a-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
