package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/kredopay/otp-api/internal/domain"
	"github.com/kredopay/otp-api/internal/pkg/id"
	"github.com/kredopay/otp-api/internal/pkg/validate"
)

// opTimeout bounds every call to the store and the notifier. Nothing in this
// service may hang on a collaborator.
const opTimeout = 10 * time.Second

// PasscodeStore is what the manager requires from the passcode table.
// Consume must be a conditional update: it reports whether the row actually
// flipped, which is the whole race-safety contract of verification.
type PasscodeStore interface {
	Put(ctx context.Context, p *domain.Passcode) error
	DeleteUnusedByEmail(ctx context.Context, email string) error
	FindValid(ctx context.Context, email, code string, nowMillis int64) ([]domain.Passcode, error)
	Consume(ctx context.Context, passcodeID string) (bool, error)
	ListOlderThan(ctx context.Context, cutoffMillis int64) ([]domain.Passcode, error)
	DeleteBatch(ctx context.Context, passcodeIDs []string) error
}

// Notifier delivers a code to a recipient.
type Notifier interface {
	Send(ctx context.Context, recipient, code string) error
}

// Limiter throttles issuance per mailbox. May be nil (disabled).
type Limiter interface {
	Allow(ctx context.Context, email string) bool
}

// Archiver persists swept records for audit. May be nil (disabled).
type Archiver interface {
	Archive(ctx context.Context, records []domain.Passcode) error
}

type ServiceDeps struct {
	Store       PasscodeStore
	Notifier    Notifier
	Limiter     Limiter
	Archiver    Archiver
	TTL         time.Duration
	BypassEmail string // fixed-code identity; empty disables
	BypassCode  string
}

// Service is the passcode manager: it issues, verifies and sweeps one-time
// passcodes.
type Service struct {
	store       PasscodeStore
	notifier    Notifier
	limiter     Limiter
	archiver    Archiver
	ttl         time.Duration
	bypassEmail string
	bypassCode  string
}

func NewService(deps ServiceDeps) *Service {
	ttl := deps.TTL
	if ttl <= 0 {
		ttl = domain.PasscodeTTL
	}
	return &Service{
		store:       deps.Store,
		notifier:    deps.Notifier,
		limiter:     deps.Limiter,
		archiver:    deps.Archiver,
		ttl:         ttl,
		bypassEmail: strings.ToLower(deps.BypassEmail),
		bypassCode:  deps.BypassCode,
	}
}

// RequestCode invalidates any unused codes for the email, issues a fresh one
// and hands it to the notifier. The code never appears in the return path.
// The record is persisted before delivery is attempted, so a delivery failure
// leaves a verifiable code behind.
func (s *Service) RequestCode(ctx context.Context, email string) error {
	if err := validate.Email(email); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	bypass := s.bypassEmail != "" && email == s.bypassEmail

	if !bypass && s.limiter != nil && !s.limiter.Allow(ctx, email) {
		return fmt.Errorf("passcode requests for this address are rate limited: %w", domain.ErrThrottled)
	}

	// Supersede before insert: at no instant are two codes valid for the email.
	cctx, cancel := context.WithTimeout(ctx, opTimeout)
	err := s.store.DeleteUnusedByEmail(cctx, email)
	cancel()
	if err != nil {
		slog.Error("failed to supersede prior passcodes", "email", email, "err", err)
		return fmt.Errorf("supersede prior passcodes: %w", domain.ErrUnavailable)
	}

	code := s.bypassCode
	if !bypass {
		code, err = randomCode()
		if err != nil {
			return fmt.Errorf("generate passcode: %w", err)
		}
	}

	now := time.Now().UTC()
	rec := &domain.Passcode{
		PasscodeID: id.New(),
		Email:      email,
		Code:       code,
		Used:       false,
		CreatedAt:  now.UnixMilli(),
		ExpiresAt:  now.Add(s.ttl).UnixMilli(),
		PurgeAt:    now.Add(domain.PasscodeRetention).Unix(),
	}
	cctx, cancel = context.WithTimeout(ctx, opTimeout)
	err = s.store.Put(cctx, rec)
	cancel()
	if err != nil {
		slog.Error("failed to persist passcode", "email", email, "err", err)
		return fmt.Errorf("persist passcode: %w", domain.ErrUnavailable)
	}

	if !bypass {
		cctx, cancel = context.WithTimeout(ctx, opTimeout)
		err = s.notifier.Send(cctx, email, code)
		cancel()
		if err != nil {
			slog.Error("failed to deliver passcode", "email", email, "err", err)
			return fmt.Errorf("deliver passcode: %w", domain.ErrNotifyFailed)
		}
	}

	// Piggyback a sweep on issuance traffic; the periodic sweeper covers
	// quiet periods. Detached from the request context on purpose.
	go s.SweepExpired(context.Background())

	return nil
}

// VerifyCode reports whether email+code name a live passcode, consuming it on
// success. All failure modes collapse to false: the caller learns nothing
// about whether the address exists, a code was issued, or one merely expired.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (bool, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(code) == "" {
		return false, fmt.Errorf("email and code are required: %w", domain.ErrBadRequest)
	}
	email = strings.ToLower(strings.TrimSpace(email))

	cctx, cancel := context.WithTimeout(ctx, opTimeout)
	candidates, err := s.store.FindValid(cctx, email, code, time.Now().UnixMilli())
	cancel()
	if err != nil {
		slog.Error("passcode lookup failed", "email", email, "err", err)
		return false, fmt.Errorf("passcode lookup: %w", domain.ErrUnavailable)
	}

	if len(candidates) == 0 {
		return false, nil
	}

	// Exactly the oldest candidate is attempted. A lost conditional update
	// means a concurrent verify already consumed that record, and the whole
	// attempt fails rather than spilling onto a younger duplicate.
	oldest := candidates[0]
	cctx, cancel = context.WithTimeout(ctx, opTimeout)
	consumed, err := s.store.Consume(cctx, oldest.PasscodeID)
	cancel()
	if err != nil {
		slog.Error("passcode consume failed", "passcode_id", oldest.PasscodeID, "err", err)
		return false, fmt.Errorf("passcode consume: %w", domain.ErrUnavailable)
	}
	return consumed, nil
}

// SweepExpired removes every record older than the retention bound, used or
// not, archiving the batch first when an archiver is configured. Best-effort:
// all failures are logged and swallowed.
func (s *Service) SweepExpired(ctx context.Context) {
	cutoff := time.Now().Add(-domain.PasscodeRetention).UnixMilli()

	cctx, cancel := context.WithTimeout(ctx, opTimeout)
	stale, err := s.store.ListOlderThan(cctx, cutoff)
	cancel()
	if err != nil {
		slog.Warn("sweep: listing stale passcodes failed", "err", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	if s.archiver != nil {
		cctx, cancel := context.WithTimeout(ctx, opTimeout)
		err := s.archiver.Archive(cctx, stale)
		cancel()
		if err != nil {
			// The retention bound wins over archive completeness.
			slog.Warn("sweep: archiving stale passcodes failed", "count", len(stale), "err", err)
		}
	}

	ids := make([]string, 0, len(stale))
	for i := range stale {
		ids = append(ids, stale[i].PasscodeID)
	}
	cctx, cancel = context.WithTimeout(ctx, opTimeout)
	err = s.store.DeleteBatch(cctx, ids)
	cancel()
	if err != nil {
		slog.Warn("sweep: deleting stale passcodes failed", "count", len(ids), "err", err)
		return
	}
	slog.Info("swept stale passcodes", "count", len(ids))
}

// randomCode draws a uniform 6-digit code in [100000, 999999]. Codes are never
// zero-padded below 100000.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
