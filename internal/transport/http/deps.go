package http

import (
	"github.com/kredopay/otp-api/internal/application/otp"
	"github.com/kredopay/otp-api/internal/application/session"
)

// Deps holds the application services the router exposes.
type Deps struct {
	OTPService     *otp.Service
	SessionService *session.Service
}
