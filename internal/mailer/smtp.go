package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPMailer delivers HTML email over plain SMTP. Host, port, and sender
// address are injected from config. Every Send is bounded by the configured
// timeout: the dial honours ctx and the connection carries a deadline, so a
// consumer worker can never hang on an unresponsive server.
type SMTPMailer struct {
	host    string
	port    string
	from    string
	auth    smtp.Auth
	timeout time.Duration
}

// NewSMTPMailer constructs a mailer. username may be empty, in which case
// no AUTH is attempted (local relay setups).
func NewSMTPMailer(host, port, from, username, password string, timeout time.Duration) *SMTPMailer {
	m := &SMTPMailer{host: host, port: port, from: from, timeout: timeout}
	if username != "" {
		m.auth = smtp.PlainAuth("", username, password, host)
	}
	return m
}

// Send connects, submits one message, and quits. Errors are returned to
// the caller (the consumer worker), which logs and moves on; there is no
// retry at this layer.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	addr := net.JoinHostPort(m.host, m.port)

	dialer := &net.Dialer{Timeout: m.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	_ = conn.SetDeadline(time.Now().Add(m.timeout))

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if m.auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(m.auth); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(buildMessage(m.from, to, subject, htmlBody))); err != nil {
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}

	return client.Quit()
}

func buildMessage(from, to, subject, htmlBody string) string {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")
	return b.String()
}

// compile-time check that SMTPMailer implements Mailer
var _ Mailer = (*SMTPMailer)(nil)
