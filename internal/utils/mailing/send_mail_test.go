package mailing

import (
	"FreshTrack/domain"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage_Headers(t *testing.T) {
	config := MailConfig{SMTPEmail: "noreply@freshtrack.test", SMTPSender: "FreshTrack"}
	msg := NewMessage(config, "owner@example.com", "Expiry digest", "<p>hi</p>")

	assert.Equal(t, []string{"owner@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Expiry digest"}, msg.GetHeader("Subject"))
	require.Len(t, msg.GetHeader("From"), 1)
	assert.Contains(t, msg.GetHeader("From")[0], "noreply@freshtrack.test")

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")
}

func TestSendMail_NotConfigured(t *testing.T) {
	err := NewMailer(MailConfig{}).SendMail("owner@example.com", "s", "b")
	assert.ErrorIs(t, err, domain.ErrMailerNotConfigured)
}
