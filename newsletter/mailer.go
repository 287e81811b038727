package newsletter

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// SmtpMailer sends through a plain SMTP relay.
type SmtpMailer struct {
	Addr string
	From string
	Auth smtp.Auth
}

// BuildMailerFromEnv returns an SMTP mailer when SMTP_ADDR is configured,
// otherwise a mailer that only logs. SMTP_ADDR=host:port, SMTP_FROM,
// SMTP_USER, SMTP_PASSWORD.
func BuildMailerFromEnv() Mailer {
	addr := os.Getenv("SMTP_ADDR")
	if addr == "" {
		logrus.Warnln("SMTP_ADDR not set, newsletters will be logged instead of mailed")
		return &LogMailer{}
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@" + strings.SplitN(addr, ":", 2)[0]
	}
	m := &SmtpMailer{Addr: addr, From: from}
	if user := os.Getenv("SMTP_USER"); user != "" {
		m.Auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), strings.SplitN(addr, ":", 2)[0])
	}
	return m
}

func (m *SmtpMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s",
		m.From, to, subject, body)
	return smtp.SendMail(m.Addr, m.Auth, m.From, []string{to}, []byte(msg))
}

// LogMailer records deliveries in the log. Stand-in for environments without
// an SMTP relay.
type LogMailer struct{}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Infoln("newsletter delivery (log only)")
	return nil
}
