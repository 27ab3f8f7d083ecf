package jwtinfra

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the session credential payload.
type Claims struct {
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 session tokens with a server-held secret.
type Provider struct {
	secret []byte
	expiry time.Duration
}

// NewProvider returns a Provider, or an error when no secret is configured.
// The secret is never logged.
func NewProvider(secret string, expiry time.Duration) (*Provider, error) {
	if secret == "" {
		return nil, errors.New("signing secret is not configured")
	}
	return &Provider{secret: []byte(secret), expiry: expiry}, nil
}

// Expiry returns the configured credential lifetime.
func (p *Provider) Expiry() time.Duration { return p.expiry }

// Sign mints a token with sub=subject, valid for the configured expiry.
func (p *Provider) Sign(subject string, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify parses the token, checking signature and expiry.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
