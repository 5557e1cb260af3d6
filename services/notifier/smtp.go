package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"nepremwatch/internal/scraper"
	"nepremwatch/pkg/errors"
)

// DefaultSMTPPort is used when no port is configured
const DefaultSMTPPort = 587

// SMTPConfig holds the mail transport settings
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   string
}

func (c SMTPConfig) validate() error {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.User == "" {
		missing = append(missing, "SMTP_USER")
	}
	if c.Pass == "" {
		missing = append(missing, "SMTP_PASS")
	}
	if c.From == "" {
		missing = append(missing, "SMTP_FROM")
	}
	if c.To == "" {
		missing = append(missing, "SMTP_TO")
	}
	if len(missing) > 0 {
		return errors.NewConfiguration("smtp",
			fmt.Sprintf("SMTP settings are incomplete, missing %s", strings.Join(missing, ", ")), nil)
	}
	return nil
}

// SMTPNotifier sends the whole batch as one mail message
type SMTPNotifier struct {
	cfg SMTPConfig

	// send is swappable for tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP creates a mail notifier. Credentials are checked on Notify, not
// here, so a partially configured process can still run other modes.
func NewSMTP(cfg SMTPConfig) *SMTPNotifier {
	if cfg.Port == 0 {
		cfg.Port = DefaultSMTPPort
	}
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

// Notify composes and sends a single message. Incomplete credentials fail
// before any dial; a failed send propagates so the seen-set does not
// advance past an undelivered batch.
func (n *SMTPNotifier) Notify(_ context.Context, listings []scraper.Listing) error {
	if err := n.cfg.validate(); err != nil {
		return err
	}

	subject := fmt.Sprintf("%d new listing(s) on nepremicnine.net", len(listings))
	lines := make([]string, 0, len(listings))
	for _, l := range listings {
		lines = append(lines, fmt.Sprintf("%s | %s | %s | %s", l.Title, l.PriceAmount, l.Location, l.URL))
	}

	msg := buildMessage(n.cfg.From, n.cfg.To, subject, strings.Join(lines, "\r\n"))
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)

	if err := n.send(addr, auth, n.cfg.From, []string{n.cfg.To}, msg); err != nil {
		return errors.NewNotify("smtp", "failed to send mail", err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
