// Package alert sends operator notifications for conditions that need
// attention, such as the upstream circuit breaker opening.
package alert

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/soundprediction/wikibio/pkg/config"
)

// ErrNoRecipients indicates alerting is enabled but nobody is
// configured to receive the mail.
var ErrNoRecipients = errors.New("no alert recipients configured")

// Alerter defines an interface for sending alerts
type Alerter interface {
	Alert(subject, message string) error
}

// EmailAlerter implements Alerter using SMTP
type EmailAlerter struct {
	cfg config.AlertConfig
}

// NewEmailAlerter creates a new email alerter
func NewEmailAlerter(cfg config.AlertConfig) *EmailAlerter {
	return &EmailAlerter{
		cfg: cfg,
	}
}

// Alert sends an email with the given subject and message. The subject
// is prefixed with the configured subject prefix so operators can
// filter alerts by sender.
func (a *EmailAlerter) Alert(subject, message string) error {
	if !a.cfg.Enabled {
		return nil
	}
	if len(a.cfg.To) == 0 {
		return ErrNoRecipients
	}

	auth := smtp.PlainAuth("", a.cfg.Username, a.cfg.Password, a.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", a.cfg.SMTPHost, a.cfg.SMTPPort)

	err := smtp.SendMail(addr, auth, a.cfg.From, a.cfg.To, a.compose(subject, message))
	if err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	return nil
}

// compose builds the raw RFC 5322 message body.
func (a *EmailAlerter) compose(subject, message string) []byte {
	if a.cfg.SubjectPrefix != "" {
		subject = a.cfg.SubjectPrefix + " " + subject
	}
	return []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", strings.Join(a.cfg.To, ","), subject, message))
}

// NoOpAlerter is a dummy alerter for when alerting is disabled
type NoOpAlerter struct{}

func (n *NoOpAlerter) Alert(subject, message string) error {
	return nil
}
