package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"crimedesk/config"
	"crimedesk/core/utils"
)

// Message is one outbound email. Bodies are HTML.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers email. Delivery failures are reported to the caller,
// which decides whether they are fatal; case creation and reminder runs
// treat them as best effort.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer picks the implementation from config. Anything other than
// "smtp" gets the log mailer, which keeps local runs from needing a
// relay.
func NewMailer(cfg config.SMTPConfig, logger *utils.Logger) Mailer {
	if strings.EqualFold(cfg.Sender, "smtp") {
		return &SMTPMailer{cfg: cfg}
	}
	return &LogMailer{logger: logger}
}

type SMTPMailer struct {
	cfg config.SMTPConfig
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return fmt.Errorf("send mail: empty recipient")
	}
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	body := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		msg.HTML,
	}, "\r\n")
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer writes the message to the log instead of delivering it.
type LogMailer struct {
	logger *utils.Logger
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.logger.Printf("mail (log sender): to=%s subject=%q", msg.To, msg.Subject)
	return nil
}
