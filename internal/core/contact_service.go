package core

import (
	"context"
	"errors"
	"fmt"
	"html"

	"go.uber.org/zap"
)

// ErrMailerUnavailable indicates that no SMTP relay is configured.
var ErrMailerUnavailable = errors.New("contact mailer is not configured")

// EmailSender is the outbound-mail contract satisfied by pkg/mailer.
type EmailSender interface {
	SendEmail(recipient, sender, subject, body string) error
}

// contactService implements the ContactService interface.
type contactService struct {
	mailer     EmailSender // nil when SMTP is not configured
	inboxAddr  string
	senderAddr string
	logger     *zap.Logger
}

// NewContactService creates a new ContactService instance. mailer may be nil,
// in which case submissions are rejected with ErrMailerUnavailable.
func NewContactService(mailer EmailSender, inboxAddr, senderAddr string, logger *zap.Logger) ContactService {
	return &contactService{
		mailer:     mailer,
		inboxAddr:  inboxAddr,
		senderAddr: senderAddr,
		logger:     logger,
	}
}

// SendContactMessage forwards a contact-form submission to the support inbox.
// The visitor's address goes into the body, not the envelope, so replies are a
// deliberate act.
func (s *contactService) SendContactMessage(ctx context.Context, name, email, message string) error {
	if s.mailer == nil {
		return ErrMailerUnavailable
	}

	subject := fmt.Sprintf("Contact form: message from %s", name)
	body := fmt.Sprintf("<html><body>"+
		"<p><b>Name:</b> %s</p>"+
		"<p><b>Email:</b> %s</p>"+
		"<p><b>Message:</b></p><p>%s</p>"+
		"</body></html>",
		html.EscapeString(name), html.EscapeString(email), html.EscapeString(message))

	if err := s.mailer.SendEmail(s.inboxAddr, s.senderAddr, subject, body); err != nil {
		s.logger.Error("failed to deliver contact message", zap.String("from", email), zap.Error(err))
		return fmt.Errorf("failed to deliver contact message: %w", err)
	}

	s.logger.Info("contact message delivered", zap.String("from", email))
	return nil
}
