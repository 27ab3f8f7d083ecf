package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	PasscodeTable string
	AuditBucket   string // empty disables sweep archiving

	NotifyChannel string // "email" | "sms"
	SMTPHost      string
	SMTPPort      string
	SMTPFrom      string
	SMTPUsername  string
	SMTPPassword  string
	SNSRegion     string

	JWTSigningSecret string
	SessionExpiry    time.Duration

	OTPTTL        time.Duration
	BypassEmail   string // fixed-code identity for automated flows; empty disables
	BypassCode    string
	SweepInterval time.Duration

	RedisAddr        string // empty disables the per-email throttle
	OTPMaxRequests   int
	OTPRequestWindow time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		PasscodeTable: getEnv("DYNAMO_TABLE_PASSCODES", "passcodes"),
		AuditBucket:   getEnv("S3_AUDIT_BUCKET", ""),

		NotifyChannel: getEnv("NOTIFY_CHANNEL", "email"),
		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnv("SMTP_PORT", "1025"),
		SMTPFrom:      getEnv("SMTP_FROM", "noreply@kredopay.app"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SNSRegion:     getEnv("SNS_REGION", "us-east-1"),

		JWTSigningSecret: getEnv("JWT_SIGNING_SECRET", ""),
		SessionExpiry:    time.Duration(getEnvInt("SESSION_EXPIRY_DAYS", 30)) * 24 * time.Hour,

		OTPTTL:        getEnvDur("OTP_TTL", 10*time.Minute),
		BypassEmail:   getEnv("OTP_BYPASS_EMAIL", ""),
		BypassCode:    getEnv("OTP_BYPASS_CODE", "000000"),
		SweepInterval: getEnvDur("SWEEP_INTERVAL", 10*time.Minute),

		RedisAddr:        getEnv("REDIS_ADDR", ""),
		OTPMaxRequests:   getEnvInt("OTP_MAX_REQUESTS", 3),
		OTPRequestWindow: getEnvDur("OTP_REQUEST_WINDOW", 10*time.Minute),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// IsProduction reports whether error responses must omit internal detail.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
