package devbackend

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"time"

	mail "github.com/go-mail/mail"
	"github.com/yuin/goldmark"
)

// SMTPSettings son los datos ya descifrados con los que se habla al servidor.
type SMTPSettings struct {
	Host     string
	Port     int
	Username string // la cuenta es la dirección del remitente
	Password string
	// UseTLS: STARTTLS obligatorio. false => TLS implícito (SMTPS).
	UseTLS  bool
	Timeout time.Duration
}

// Outgoing es un correo listo para entregar.
type Outgoing struct {
	From    string
	To      []string
	CC      []string
	BCC     []string
	Subject string
	Text    string
	HTML    string
}

// Mailer entrega correos. El dev backend usa SMTPMailer; los tests, un fake.
type Mailer interface {
	Send(ctx context.Context, s SMTPSettings, m Outgoing) error
	Test(ctx context.Context, s SMTPSettings) error
}

// SMTPMailer implementa Mailer con go-mail.
type SMTPMailer struct {
	InsecureSkipVerify bool // solo dev
}

func (m SMTPMailer) dialer(s SMTPSettings) *mail.Dialer {
	d := mail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	d.TLSConfig = &tls.Config{ServerName: s.Host, InsecureSkipVerify: m.InsecureSkipVerify}
	if s.UseTLS {
		d.StartTLSPolicy = mail.MandatoryStartTLS
	} else {
		d.SSL = true
	}
	if s.Timeout > 0 {
		d.Timeout = s.Timeout
	}
	return d
}

func (m SMTPMailer) Send(_ context.Context, s SMTPSettings, out Outgoing) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", out.From)
	msg.SetHeader("To", out.To...)
	if len(out.CC) > 0 {
		msg.SetHeader("Cc", out.CC...)
	}
	if len(out.BCC) > 0 {
		msg.SetHeader("Bcc", out.BCC...)
	}
	msg.SetHeader("Subject", out.Subject)
	msg.SetBody("text/plain", out.Text)
	if out.HTML != "" {
		msg.AddAlternative("text/html", out.HTML)
	}
	if err := m.dialer(s).DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Test abre la conexión, autentica y cierra.
func (m SMTPMailer) Test(_ context.Context, s SMTPSettings) error {
	sc, err := m.dialer(s).Dial()
	if err != nil {
		return err
	}
	return sc.Close()
}

const htmlShell = `<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; }
h1, h2, h3 { color: #333; }
code { background-color: #f4f4f4; padding: 2px 6px; }
</style>
</head>
<body>%s</body>
</html>`

// markdownHTML convierte el cuerpo (markdown) en la parte HTML del correo.
func markdownHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return fmt.Sprintf(htmlShell, buf.String()), nil
}
