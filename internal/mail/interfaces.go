package mail

import (
	"crypto/tls"

	"github.com/ryan-gang/ink-drop/internal/config"
	"github.com/ryan-gang/ink-drop/internal/logger"
)

// MailSender defines the interface for delivering articles and alerts
type MailSender interface {
	// SendToKindle mails html as an attachment to the configured Kindle
	// address. Delivery failures are returned to the caller.
	SendToKindle(title, htmlContent string) error

	// SendAlert mails a plain-text notification to the SMTP user itself.
	// It never fails loudly: false means the alert was not delivered.
	SendAlert(subject, message string) bool
}

// Mailer implements MailSender over an authenticated STARTTLS SMTP session.
// Every call opens and closes its own connection.
type Mailer struct {
	cfg       config.ConfigProvider
	log       logger.LoggerInterface
	tlsConfig *tls.Config
}

var _ MailSender = (*Mailer)(nil)

// Option customises a Mailer.
type Option func(*Mailer)

// WithLogger sets the logger used for delivery failures and progress.
func WithLogger(l logger.LoggerInterface) Option {
	return func(m *Mailer) {
		m.log = l
	}
}

// WithTLSConfig overrides the TLS settings used after STARTTLS.
func WithTLSConfig(c *tls.Config) Option {
	return func(m *Mailer) {
		m.tlsConfig = c
	}
}

// NewMailer creates a new SMTP mailer
func NewMailer(cfg config.ConfigProvider, opts ...Option) *Mailer {
	m := &Mailer{cfg: cfg, log: logger.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
