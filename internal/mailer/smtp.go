package mailer

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	mail "github.com/xhit/go-simple-mail/v2"

	"github.com/iliyamo/record-store/internal/config"
)

// SMTPMailer sends mail through a plain SMTP server. A fresh connection is
// made per message; the volumes here (welcome mails, order status updates)
// do not justify connection pooling.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func authType(s string) mail.AuthType {
	switch strings.ToUpper(s) {
	case "PLAIN":
		return mail.AuthPlain
	case "LOGIN":
		return mail.AuthLogin
	default:
		return mail.AuthNone
	}
}

func encryptionType(s string) mail.Encryption {
	switch strings.ToUpper(s) {
	case "NONE":
		return mail.EncryptionNone
	case "SSL":
		return mail.EncryptionSSL
	case "SSLTLS":
		return mail.EncryptionSSLTLS
	case "TLS":
		return mail.EncryptionTLS
	default:
		return mail.EncryptionSTARTTLS
	}
}

func addressField(address, name string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

func (m *SMTPMailer) Send(toName, to, subject, content string) error {
	server := mail.NewSMTPClient()
	server.Host = m.cfg.Host
	server.Port = m.cfg.Port
	server.Authentication = authType(m.cfg.AuthType)
	server.Username = m.cfg.Username
	server.Password = m.cfg.Password
	server.Encryption = encryptionType(m.cfg.Encryption)
	server.KeepAlive = false
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second

	if m.cfg.NoTLSCheck {
		server.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client, err := server.Connect()
	if err != nil {
		return fmt.Errorf("smtp connect: %w", err)
	}

	msg := mail.NewMSG()
	msg.SetFrom(addressField(m.cfg.From, m.cfg.FromName)).
		AddTo(addressField(to, toName)).
		SetSubject(subject).
		SetBody(mail.TextHTML, content)

	if err := msg.Send(client); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
