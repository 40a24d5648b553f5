package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type fakeEmailSender struct {
	recipient string
	sender    string
	subject   string
	body      string
	err       error
}

func (f *fakeEmailSender) SendEmail(recipient, sender, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.recipient = recipient
	f.sender = sender
	f.subject = subject
	f.body = body
	return nil
}

func TestSendContactMessage(t *testing.T) {
	sender := &fakeEmailSender{}
	svc := NewContactService(sender, "support@example.com", "noreply@example.com", zap.NewNop())

	err := svc.SendContactMessage(context.Background(), "Priya", "priya@example.com", "I love the app <3")
	if err != nil {
		t.Fatalf("SendContactMessage() error = %v", err)
	}
	if sender.recipient != "support@example.com" || sender.sender != "noreply@example.com" {
		t.Errorf("envelope = %q -> %q, want noreply -> support", sender.sender, sender.recipient)
	}
	if !strings.Contains(sender.body, "priya@example.com") {
		t.Error("visitor address missing from body")
	}
	if strings.Contains(sender.body, "<3") {
		t.Error("message was not HTML-escaped")
	}
}

func TestSendContactMessageWithoutMailer(t *testing.T) {
	svc := NewContactService(nil, "support@example.com", "noreply@example.com", zap.NewNop())
	err := svc.SendContactMessage(context.Background(), "Priya", "priya@example.com", "hello")
	if !errors.Is(err, ErrMailerUnavailable) {
		t.Fatalf("SendContactMessage() error = %v, want ErrMailerUnavailable", err)
	}
}

func TestSendContactMessageDeliveryFailure(t *testing.T) {
	sender := &fakeEmailSender{err: errors.New("relay refused")}
	svc := NewContactService(sender, "support@example.com", "noreply@example.com", zap.NewNop())
	if err := svc.SendContactMessage(context.Background(), "Priya", "priya@example.com", "hello"); err == nil {
		t.Fatal("SendContactMessage() = nil, want delivery error")
	}
}
