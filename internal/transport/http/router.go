package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kredopay/otp-api/internal/config"
	"github.com/kredopay/otp-api/internal/transport/http/handler"
	appmiddleware "github.com/kredopay/otp-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(deps.OTPService, deps.SessionService, !cfg.IsProduction())
	sessionH := handler.NewSessionHandler()

	// 5 requests/second with a burst of 10 on the public passcode endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/{action}", authH.Action)

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.SessionService))
			r.Get("/sessions", sessionH.GetCurrent)
		})
	})

	return r
}
