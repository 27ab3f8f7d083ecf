package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kredopay/otp-api/internal/application/otp"
	"github.com/kredopay/otp-api/internal/application/session"
	"github.com/kredopay/otp-api/internal/config"
	"github.com/kredopay/otp-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/kredopay/otp-api/internal/infrastructure/jwt"
	redisinfra "github.com/kredopay/otp-api/internal/infrastructure/redis"
	s3infra "github.com/kredopay/otp-api/internal/infrastructure/s3"
	"github.com/kredopay/otp-api/internal/infrastructure/smtp"
	snsinfra "github.com/kredopay/otp-api/internal/infrastructure/sns"
	transporthttp "github.com/kredopay/otp-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap the passcode table (created if it doesn't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.PasscodeTable)
	passcodeRepo := dynamo.NewPasscodeRepo(dynamoClient, cfg.PasscodeTable)

	// Delivery channel.
	var notifier otp.Notifier
	switch cfg.NotifyChannel {
	case "sms":
		sender, err := snsinfra.NewSender(cfg)
		if err != nil {
			log.Fatalf("SNS sender: %v", err)
		}
		notifier = sender
	default:
		notifier = smtp.NewMailer(cfg)
	}

	// Per-mailbox throttle (optional).
	var limiter otp.Limiter
	if l := redisinfra.NewLimiter(cfg.RedisAddr, cfg.OTPRequestWindow, cfg.OTPMaxRequests); l != nil {
		limiter = l
	}

	// Sweep audit archive (optional).
	var archiver otp.Archiver
	if cfg.AuditBucket != "" {
		a, err := s3infra.NewArchiver(cfg)
		if err != nil {
			log.Printf("WARN: sweep archiver not available: %v", err)
		} else {
			archiver = a
		}
	}

	jwtProvider, err := jwtinfra.NewProvider(cfg.JWTSigningSecret, cfg.SessionExpiry)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	otpSvc := otp.NewService(otp.ServiceDeps{
		Store:       passcodeRepo,
		Notifier:    notifier,
		Limiter:     limiter,
		Archiver:    archiver,
		TTL:         cfg.OTPTTL,
		BypassEmail: cfg.BypassEmail,
		BypassCode:  cfg.BypassCode,
	})

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		OTPService:     otpSvc,
		SessionService: session.NewService(jwtProvider),
	})

	// Periodic sweeper: bounds table growth even when no requests arrive.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go runSweeper(sweepCtx, otpSvc, cfg.SweepInterval)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopSweeper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// runSweeper calls SweepExpired every interval until ctx is cancelled.
func runSweeper(ctx context.Context, svc *otp.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.SweepExpired(ctx)
		}
	}
}
