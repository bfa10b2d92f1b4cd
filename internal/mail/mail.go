package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sejins/studyhub/internal/config"
	"github.com/sejins/studyhub/pkg/logger"
)

// Message is one outbound email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sender delivers email messages. Delivery is fire-and-forget from the
// caller's point of view; failures are logged, never retried here.
type Sender interface {
	Send(msg Message) error
}

// NewSenderFromConfig returns an SMTP sender when SMTP_HOST is set and a
// log-only sender otherwise (development default).
func NewSenderFromConfig(cfg *config.Config) Sender {
	if cfg.SMTPHost == "" {
		return &LogSender{}
	}
	return &SMTPSender{
		Addr:     cfg.SMTPHost + ":" + cfg.SMTPPort,
		Host:     cfg.SMTPHost,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}
}

// SMTPSender delivers mail over plain SMTP with optional auth.
type SMTPSender struct {
	Addr     string
	Host     string
	Username string
	Password string
	From     string
}

// Send delivers the message.
func (s *SMTPSender) Send(msg Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Body)

	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	if err := smtp.SendMail(s.Addr, auth, s.From, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return nil
}

// LogSender writes mail to the log instead of delivering it.
type LogSender struct{}

// Send logs the message.
func (s *LogSender) Send(msg Message) error {
	logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("mail (log sender)")
	return nil
}
