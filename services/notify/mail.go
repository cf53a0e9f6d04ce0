package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"hearth/services/hearth"
)

const defaultMailTimeout = 15 * time.Second

// MailConfig describes the SMTP relay and the admin mailbox.
type MailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
	Timeout    time.Duration
}

type sendFunc func(ctx context.Context, msg *mail.Msg) error

// MailNotifier sends notifications as plain-text email.
type MailNotifier struct {
	cfg  MailConfig
	send sendFunc
}

// NewMailNotifier validates cfg and returns a notifier delivering through
// the configured SMTP relay.
func NewMailNotifier(cfg MailConfig) (*MailNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultMailTimeout
	}
	if cfg.From == "" {
		return nil, errors.New("sender address is required")
	}
	if cfg.AdminEmail == "" {
		return nil, errors.New("admin email is required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &MailNotifier{cfg: cfg, send: func(ctx context.Context, msg *mail.Msg) error {
		return client.DialAndSendWithContext(ctx, msg)
	}}, nil
}

func (m *MailNotifier) Notify(ctx context.Context, n hearth.Notification) error {
	to := n.Recipient
	if to == hearth.RecipientAdmin || to == "" {
		to = m.cfg.AdminEmail
	}

	msg, err := m.compose(to, n, time.Now())
	if err != nil {
		return err
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func (m *MailNotifier) compose(to string, n hearth.Notification, now time.Time) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("sender %q: %w", m.cfg.From, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("recipient %q: %w", to, err)
	}
	msg.Subject(n.Subject)
	msg.SetDateWithValue(now)
	msg.SetBodyString(mail.TypeTextPlain, n.Body)
	return msg, nil
}
