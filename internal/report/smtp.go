package report

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// SMTPSender delivers reports over SMTP with STARTTLS and PLAIN auth.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Send composes a multipart/alternative message and submits it. The
// context is checked before dialing; net/smtp itself does not take one.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	body := composeMIME(s.From, msg)
	if err := smtp.SendMail(addr, auth, s.From, []string{msg.To}, body); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

const mimeBoundary = "marketd-report-boundary"

func composeMIME(from string, msg *Message) []byte {
	var b strings.Builder
	write := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\r\n", args...)
	}

	write("From: %s", from)
	write("To: %s", msg.To)
	write("Subject: %s", mime.QEncoding.Encode("utf-8", msg.Subject))
	write("MIME-Version: 1.0")
	write("Content-Type: multipart/alternative; boundary=%q", mimeBoundary)
	write("")

	for _, part := range []struct {
		ctype string
		body  string
	}{
		{"text/plain; charset=utf-8", msg.TextBody},
		{"text/html; charset=utf-8", msg.HTMLBody},
	} {
		write("--%s", mimeBoundary)
		write("Content-Type: %s", part.ctype)
		write("")
		write("%s", strings.ReplaceAll(part.body, "\n", "\r\n"))
	}
	write("--%s--", mimeBoundary)

	return []byte(b.String())
}
