package domain

import "time"

// PasscodeTTL is how long a passcode stays verifiable after creation.
const PasscodeTTL = 10 * time.Minute

// PasscodeRetention is how long records are kept for audit before the sweep
// removes them, used or not.
const PasscodeRetention = time.Hour

// Passcode is one issued one-time passcode.
// PK: passcode_id. GSI email-index: email.
// PurgeAt is a Unix-seconds timestamp used as the DynamoDB TTL attribute; it is
// a lazy backstop; the sweeper enforces the retention bound.
type Passcode struct {
	PasscodeID string `json:"passcode_id" dynamodbav:"passcode_id"`
	Email      string `json:"email" dynamodbav:"email"` // stored lowercased
	Code       string `json:"code" dynamodbav:"code"`   // exactly 6 digits
	Used       bool   `json:"used" dynamodbav:"used"`
	CreatedAt  int64  `json:"created_at" dynamodbav:"created_at"` // Unix millis
	ExpiresAt  int64  `json:"expires_at" dynamodbav:"expires_at"` // Unix millis
	PurgeAt    int64  `json:"purge_at" dynamodbav:"purge_at"`     // Unix seconds (TTL)
}
