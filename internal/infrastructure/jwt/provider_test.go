package jwtinfra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_EmptySecret(t *testing.T) {
	_, err := NewProvider("", time.Hour)
	assert.Error(t, err)
}

func TestSignVerify(t *testing.T) {
	p, err := NewProvider("secret", time.Hour)
	require.NoError(t, err)

	now := time.Now().UTC()
	token, err := p.Sign("alice@example.com", now)
	require.NoError(t, err)

	claims, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.WithinDuration(t, now.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestVerify_Tampered(t *testing.T) {
	p, err := NewProvider("secret", time.Hour)
	require.NoError(t, err)

	token, err := p.Sign("alice@example.com", time.Now())
	require.NoError(t, err)

	_, err = p.Verify(token + "x")
	assert.Error(t, err)
}
