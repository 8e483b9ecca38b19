// Package mailer delivers department notification e-mails. Sends are queued
// on a bounded channel and drained by a single worker goroutine, so a slow or
// down SMTP server can never block a request or roll back a committed write.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/agrocoop/quotation-service/config"
)

// Message is a fully-resolved notification: recipients, subject and HTML body
// are snapshotted by the caller before the message is queued, so later
// mutations of the record cannot leak into an in-flight send.
type Message struct {
	Recipients []string
	Subject    string
	HTMLBody   string
}

// Sender delivers a single message
type Sender interface {
	Send(msg Message) error
}

// SMTPSender sends messages through the configured SMTP relay
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender creates a sender for the given SMTP configuration
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers msg as an HTML e-mail
func (s *SMTPSender) Send(msg Message) error {
	if len(msg.Recipients) == 0 {
		return fmt.Errorf("no recipients")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", msg.Recipients...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// RecordSaved builds the status-change notification for a created or updated
// record. kind is the display name ("Cotação" or "Pesquisa").
func RecordSaved(recipients []string, kind string, id int64, memberName, status string, created bool) Message {
	verb := "atualizada"
	subject := fmt.Sprintf("%s Atualizada", kind)
	if created {
		verb = "criada"
		subject = fmt.Sprintf("Nova %s Criada", kind)
	}
	body := fmt.Sprintf(
		"<p>Uma %s foi %s para o cooperado %s (ID %d). Status: %s.</p>",
		kind, verb, memberName, id, status,
	)
	return Message{Recipients: recipients, Subject: subject, HTMLBody: body}
}
