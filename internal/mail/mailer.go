package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/civic-issue-service/internal/config"
)

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers messages. A nil return means the message was accepted;
// callers treat any error as a logged, non-fatal delivery failure.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer picks the SMTP or demo implementation based on configuration.
// Demo mode also kicks in when no SMTP credentials are present, matching
// local development behavior.
func NewMailer(cfg config.NotificationConfig, logger *zap.Logger) Mailer {
	if cfg.DemoMode || cfg.SMTPUsername == "" {
		return &DemoMailer{logger: logger}
	}
	return &SMTPMailer{cfg: cfg}
}

// SMTPMailer sends mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	cfg config.NotificationConfig
}

// Send delivers the message synchronously.
func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	var body strings.Builder
	fmt.Fprintf(&body, "From: Civic Issue System <%s>\r\n", m.cfg.EmailFrom)
	fmt.Fprintf(&body, "To: %s\r\n", msg.To)
	fmt.Fprintf(&body, "Subject: %s\r\n", msg.Subject)
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	auth := smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	return smtp.SendMail(addr, auth, m.cfg.EmailFrom, []string{msg.To}, []byte(body.String()))
}

// DemoMailer logs messages instead of sending them.
type DemoMailer struct {
	logger *zap.Logger
}

// Send records the would-be delivery.
func (m *DemoMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("demo mode - email simulated",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
