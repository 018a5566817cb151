package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

func testNotifier() *Notifier {
	return NewNotifier(Config{Host: "smtp.example.com", Port: 587, From: "archive@example.com"}, zerolog.Nop())
}

func render(t *testing.T, msg *gomail.Msg) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestBuildMessage(t *testing.T) {
	n := testNotifier()

	msg, err := n.buildMessage("alice@x.com", "alice", "Ab3dE6gH")
	require.NoError(t, err)

	rcpts, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@x.com"}, rcpts)

	raw := render(t, msg)
	assert.Contains(t, raw, "Subject: Account Password")
	assert.Contains(t, raw, "Borgir Archive")
	assert.Contains(t, raw, "Hello, alice")
	assert.Contains(t, raw, "Ab3dE6gH")
}

func TestBuildMessage_EscapesUsername(t *testing.T) {
	msg, err := testNotifier().buildMessage("eve@x.com", "<b>eve</b>", "pw")
	require.NoError(t, err)

	raw := render(t, msg)
	assert.NotContains(t, raw, "<b>eve</b>")
	assert.Contains(t, raw, "&lt;b&gt;eve&lt;/b&gt;")
}

func TestBuildMessage_BadRecipient(t *testing.T) {
	_, err := testNotifier().buildMessage("not an address", "x", "pw")
	assert.Error(t, err)
}

func TestSendTemporaryPassword(t *testing.T) {
	n := testNotifier()
	var sent *gomail.Msg
	n.send = func(ctx context.Context, msg *gomail.Msg) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		sent = msg
		return nil
	}

	require.NoError(t, n.SendTemporaryPassword(context.Background(), "bob@x.com", "bob", "pw123456"))
	require.NotNil(t, sent)
}

func TestSendTemporaryPassword_TransportError(t *testing.T) {
	n := testNotifier()
	cause := errors.New("421 service not available")
	n.send = func(context.Context, *gomail.Msg) error { return cause }

	err := n.SendTemporaryPassword(context.Background(), "bob@x.com", "bob", "pw")
	assert.ErrorIs(t, err, cause)
}
