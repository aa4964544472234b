package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/doctorsportal/portal-api/internal/model"
	"github.com/doctorsportal/portal-api/pkg/logger"
)

type Service interface {
	SendBookingConfirmation(ctx context.Context, booking *model.Booking) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

// NewService returns an SMTP-backed sender, or a no-op one when no host is
// configured so local setups work without a mail server.
func NewService(cfg Config, logger *logger.Logger) Service {
	if cfg.Host == "" {
		logger.Info("email disabled, no SMTP host configured")
		return &noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (s *smtpService) SendBookingConfirmation(_ context.Context, booking *model.Booking) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", booking.Patient)
	m.SetHeader("Subject", fmt.Sprintf("Your appointment for %s on %s is confirmed", booking.Treatment, booking.Date))
	m.SetBody("text/html", fmt.Sprintf(
		"<h3>Your appointment is confirmed</h3>"+
			"<p>Treatment: %s</p>"+
			"<p>Date: %s</p>"+
			"<p>Slot: %s</p>",
		booking.Treatment, booking.Date, booking.Slot,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}
	return nil
}

type noopService struct{}

func (n *noopService) SendBookingConfirmation(context.Context, *model.Booking) error {
	return nil
}
