package notify

import (
	"time"

	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"

	"github.com/autopatch-project/autopatch-agent/internal/config"
)

// transportTimeout bounds the whole SMTP conversation so an unreachable
// relay cannot hang an unattended run.
const transportTimeout = 30 * time.Second

// Notifier dispatches one rendered notification. The controller treats a
// returned error as log-only: a failure to notify never aborts the run.
type Notifier interface {
	Notify(subject, body string) error
}

// Mailer submits notifications to the configured SMTP relay.
type Mailer struct {
	cfg *config.Config
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Notify(subject, body string) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.SMTPPort),
		mail.WithTimeout(transportTimeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.SMTPUser),
			mail.WithPassword(m.cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(m.cfg.SMTPServer, opts...)
	if err != nil {
		return errors.Wrap(err, "creating SMTP client")
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.FromAddress); err != nil {
		return errors.Wrap(err, "setting sender address")
	}
	if err := msg.To(m.cfg.AdminEmail); err != nil {
		return errors.Wrap(err, "setting admin recipient")
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := client.DialAndSend(msg); err != nil {
		return errors.Wrap(err, "sending notification")
	}
	return nil
}
