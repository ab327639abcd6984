// Package mailer sends best-effort transactional email over SMTP.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strconv"

	"github.com/jordan-wright/email"
)

// Sender delivers a single HTML email.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// Mailer wraps SMTP configuration for outbound mail.
type Mailer struct {
	host     string
	addr     string
	user     string
	password string
	fromName string
}

// NewFromEnv builds a Mailer from SMTP_* environment variables. With no
// credentials configured every send becomes a logged no-op, matching the
// best-effort contract of email delivery.
func NewFromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	fromName := os.Getenv("SMTP_FROM_NAME")
	if fromName == "" {
		fromName = "MobileOps Connect"
	}

	return &Mailer{
		host:     host,
		addr:     fmt.Sprintf("%s:%d", host, port),
		user:     os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		fromName: fromName,
	}
}

// Send delivers one HTML email to a single recipient.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if m.user == "" || m.password == "" {
		log.Printf("mailer: SMTP credentials not configured, email to %s not sent", to)
		return nil
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.fromName, m.user)
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(htmlBody)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if err := e.Send(m.addr, auth); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}
