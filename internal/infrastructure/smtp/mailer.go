package smtp

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/kredopay/otp-api/internal/config"
	"github.com/kredopay/otp-api/internal/domain"
)

// Mailer delivers passcodes over SMTP.
type Mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

// Send emails the code to the recipient. net/smtp has no context support, so
// the dial-and-send runs in a goroutine and the call returns early when the
// caller's deadline fires.
func (m *Mailer) Send(ctx context.Context, recipient, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf("Your verification code is %s.\nIt expires in %d minutes.\n",
		code, int(domain.PasscodeTTL.Minutes()))
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, recipient, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	errc := make(chan error, 1)
	go func() {
		errc <- smtp.SendMail(addr, auth, m.from, []string{recipient}, []byte(msg))
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
