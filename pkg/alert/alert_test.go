package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soundprediction/wikibio/pkg/config"
)

func TestComposeAppliesSubjectPrefix(t *testing.T) {
	a := NewEmailAlerter(config.AlertConfig{
		To:            []string{"ops@example.com", "oncall@example.com"},
		SubjectPrefix: "[wikibio]",
	})

	msg := string(a.compose("query service circuit breaker open", "breaker tripped"))

	assert.Contains(t, msg, "To: ops@example.com,oncall@example.com\r\n")
	assert.Contains(t, msg, "Subject: [wikibio] query service circuit breaker open\r\n")
	assert.Contains(t, msg, "\r\n\r\nbreaker tripped\r\n")
}

func TestComposeWithoutPrefix(t *testing.T) {
	a := NewEmailAlerter(config.AlertConfig{To: []string{"ops@example.com"}})

	msg := string(a.compose("subject", "body"))
	assert.Contains(t, msg, "Subject: subject\r\n")
}

func TestAlertDisabledIsNoOp(t *testing.T) {
	a := NewEmailAlerter(config.AlertConfig{Enabled: false})
	assert.NoError(t, a.Alert("subject", "message"))
}

func TestAlertRequiresRecipients(t *testing.T) {
	a := NewEmailAlerter(config.AlertConfig{Enabled: true})
	assert.ErrorIs(t, a.Alert("subject", "message"), ErrNoRecipients)
}

func TestNoOpAlerter(t *testing.T) {
	assert.NoError(t, (&NoOpAlerter{}).Alert("subject", "message"))
}
