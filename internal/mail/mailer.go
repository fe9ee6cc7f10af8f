package mail

import (
	"github.com/ryan-gang/ink-drop/internal/config"
	"github.com/ryan-gang/ink-drop/internal/logger"

	gomail "gopkg.in/mail.v2"
)

// SendToKindle loads the delivery configuration from the environment and
// mails the article to the Kindle. Configuration and delivery errors are
// returned unchanged.
func SendToKindle(title, htmlContent string) error {
	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("Failed to load email config: %v", err)
		return err
	}
	return NewMailer(config.NewConfigProvider(cfg)).SendToKindle(title, htmlContent)
}

// SendAlert loads the delivery configuration from the environment and mails
// an alert to the SMTP user. It reports whether the alert went out.
func SendAlert(subject, message string) bool {
	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("Failed to send alert %q: %v", subject, err)
		return false
	}
	return NewMailer(config.NewConfigProvider(cfg)).SendAlert(subject, message)
}

func (m *Mailer) SendToKindle(title, htmlContent string) error {
	msg := newArticleMessage(m.cfg, title, htmlContent)

	m.log.Debugf("Sending %q (%d bytes) to %s via %s", title, len(htmlContent), m.cfg.GetKindleEmail(), m.cfg.Address())
	if err := m.deliver(msg); err != nil {
		m.log.Errorf("Failed to send email: %v", err)
		return err
	}

	m.log.Infof("Sent %q to %s", title, m.cfg.GetKindleEmail())
	return nil
}

func (m *Mailer) SendAlert(subject, message string) bool {
	msg := newAlertMessage(m.cfg, subject, message)

	if err := m.deliver(msg); err != nil {
		m.log.Errorf("Failed to send alert %q: %v", subject, err)
		return false
	}

	m.log.Infof("Sent alert %q to %s", subject, m.cfg.GetUser())
	return true
}

// deliver runs one SMTP session: dial, mandatory STARTTLS, AUTH, submit, QUIT.
// The connection is closed on every path.
func (m *Mailer) deliver(msg *gomail.Message) error {
	sess, err := m.openSession()
	if err != nil {
		return &DeliveryError{Op: "connect", Err: err}
	}
	defer sess.close()

	if err := sess.send(msg); err != nil {
		return &DeliveryError{Op: "submit", Err: err}
	}

	if err := sess.quit(); err != nil {
		// the server already accepted the message
		m.log.Warnf("Closing SMTP session with %s: %v", m.cfg.Address(), err)
	}
	return nil
}
