// Package notifier mengirim pemberitahuan email saat status pengajuan berubah.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"
)

type Notifier interface {
	Notify(ctx context.Context, to []string, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// New mengembalikan notifier SMTP, atau Nop bila Host kosong.
func New(cfg SMTPConfig) Notifier {
	if strings.TrimSpace(cfg.Host) == "" {
		return Nop{}
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &smtpNotifier{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

type smtpNotifier struct {
	from   string
	dialer *gomail.Dialer
}

func (n *smtpNotifier) Notify(ctx context.Context, to []string, subject, body string) error {
	to = compact(to)
	if len(to) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("kirim email %q: %w", subject, err)
	}
	return nil
}

// Nop hanya mencatat pemberitahuan ke log.
type Nop struct{}

func (Nop) Notify(ctx context.Context, to []string, subject, _ string) error {
	slog.DebugContext(ctx, "notification skipped", "to", strings.Join(compact(to), ","), "subject", subject)
	return nil
}

func compact(to []string) []string {
	out := to[:0:0]
	for _, addr := range to {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
