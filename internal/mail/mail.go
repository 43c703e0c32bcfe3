// Package mail delivers household invitation email over SMTP.
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Config holds the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Service sends invitation mail through an SMTP relay.
type Service struct {
	dialer *gomail.Dialer
	from   string
}

// New creates a mail service from SMTP settings.
func New(cfg Config) *Service {
	return &Service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendInvitation mails a household invitation with the join link. Delivery
// failures are the caller's to log; the invitation itself is already
// persisted and is not rolled back on failure.
func (s *Service) SendInvitation(to, householdName, joinLink string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", s.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", fmt.Sprintf("Invitation to household %q", householdName))
	message.SetBody("text/html", fmt.Sprintf(`
		<p>Hello,</p>
		<p>You have been invited to join the household <strong>%s</strong>.</p>
		<p><a href=%q>Accept the invitation</a></p>
		<p>If you don't have an account yet, register first and then follow the link.</p>
	`, householdName, joinLink))

	return s.dialer.DialAndSend(message)
}
