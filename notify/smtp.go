package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SMTP delivers notices by email through gomail.
type SMTP struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *SMTP) message(n Notice) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.To)
	m.SetHeader("Reply-To", n.Email)
	m.SetHeader("Subject", n.Subject())
	m.SetBody("text/plain", n.Body())
	return m
}

// Notify sends n, giving up when ctx is done.
func (s *SMTP) Notify(ctx context.Context, n Notice) error {
	m := s.message(n)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("sending notice %s: %w", n.ID, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
