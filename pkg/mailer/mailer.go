// Package mailer sends transactional email over SMTP. It carries no
// provider-specific logic; point it at any SMTP relay via Config.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds the SMTP relay settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
}

// Mailer sends email through the configured relay.
type Mailer struct {
	cfg Config

	// send is swappable in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a Mailer. Host, Username and Password are required.
func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host must be provided")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("SMTP username and password must be provided")
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	return &Mailer{cfg: cfg, send: smtp.SendMail}, nil
}

// SendEmail sends a single message. The Content-Type is inferred from the
// body: bodies containing basic HTML tags are sent as text/html, everything
// else as text/plain.
func (m *Mailer) SendEmail(recipient, sender, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if sender == "" {
		return fmt.Errorf("sender email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}

	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, sender, subject, contentType, body))

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port

	if err := m.send(addr, auth, sender, []string{recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
