package session

import (
	"fmt"
	"time"

	"github.com/kredopay/otp-api/internal/domain"
	jwtinfra "github.com/kredopay/otp-api/internal/infrastructure/jwt"
)

// Service converts a verified email into a signed, time-bounded session
// credential. It persists nothing and performs no re-verification: the HTTP
// layer only calls Issue inside the same request that verified the passcode.
type Service struct {
	provider *jwtinfra.Provider
}

func NewService(provider *jwtinfra.Provider) *Service {
	return &Service{provider: provider}
}

// Issue mints a credential with subject=email. The token is self-contained:
// any later consumer can check it with nothing but the signing secret.
func (s *Service) Issue(email string) (string, domain.SessionClaims, error) {
	now := time.Now().UTC()
	token, err := s.provider.Sign(email, now)
	if err != nil {
		return "", domain.SessionClaims{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, domain.SessionClaims{
		Subject:   email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.provider.Expiry()),
	}, nil
}

// Verify checks signature and expiry on a presented credential.
func (s *Service) Verify(token string) (domain.SessionClaims, error) {
	claims, err := s.provider.Verify(token)
	if err != nil {
		return domain.SessionClaims{}, fmt.Errorf("invalid session token: %w", domain.ErrUnauthorized)
	}
	return toClaims(claims), nil
}

func toClaims(c *jwtinfra.Claims) domain.SessionClaims {
	out := domain.SessionClaims{Subject: c.Subject}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
