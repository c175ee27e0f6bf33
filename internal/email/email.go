// Package email sends transactional mail over SMTP.
package email

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

type Config struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Service sends account mail. When disabled it is a no-op, so callers can
// always invoke it without checking configuration.
type Service struct {
	cfg    Config
	dialer *gomail.Dialer
	logger zerolog.Logger
}

func NewService(cfg Config, logger zerolog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}
}

// SendWelcome greets a newly registered account. Failures are returned so the
// caller can decide whether they are fatal; registration treats them as
// best-effort.
func (s *Service) SendWelcome(to, role string) error {
	if !s.cfg.Enabled {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to the OR Logbook")
	m.SetBody("text/plain", fmt.Sprintf(
		"Your %s account has been created. You can now sign in with your email address.", role))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	s.logger.Info().Str("to", to).Msg("welcome email sent")
	return nil
}
