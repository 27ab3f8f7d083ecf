package domain

import "time"

// SessionClaims is the decoded content of an issued session credential.
// Nothing here is persisted; the token is self-contained.
type SessionClaims struct {
	Subject   string    `json:"subject"` // the verified email
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
