package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"

	"lms_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		User:     "noreply@example.com",
		Password: "secret",
		From:     "noreply@example.com",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildMessage(t *testing.T) {
	raw, err := BuildMessage("noreply@example.com", Message{
		To:      []string{"a@x.com"},
		Subject: "Password Reset Request",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	})
	require.NoError(t, err)

	s := string(raw)
	assert.Contains(t, s, "From: noreply@example.com\r\n")
	assert.Contains(t, s, "To: a@x.com\r\n")
	assert.Contains(t, s, "Subject: Password Reset Request\r\n")
	assert.Contains(t, s, "Content-Type: multipart/alternative; boundary=")
	assert.Contains(t, s, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, s, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, s, "plain body")
	assert.Contains(t, s, "<p>html body</p>")
}

func TestBuildMessage_TextOnly(t *testing.T) {
	raw, err := BuildMessage("noreply@example.com", Message{To: []string{"a@x.com"}, Subject: "hi", Text: "only text"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "text/html")
}

func TestSMTPMailer_Send(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m := NewSMTPMailer(testConfig(), discardLogger()).WithSendFunc(
		func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		})

	err := m.Send(context.Background(), Message{To: []string{"a@x.com"}, Subject: "s", Text: "t"})

	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"a@x.com"}, gotTo)
	assert.True(t, strings.Contains(string(gotMsg), "Subject: s"))
}

func TestSMTPMailer_Send_TransportError(t *testing.T) {
	m := NewSMTPMailer(testConfig(), discardLogger()).WithSendFunc(
		func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("connection refused")
		})

	err := m.Send(context.Background(), Message{To: []string{"a@x.com"}, Subject: "s", Text: "t"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTPMailer_Send_NoRecipients(t *testing.T) {
	called := false
	m := NewSMTPMailer(testConfig(), discardLogger()).WithSendFunc(
		func(string, smtp.Auth, string, []string, []byte) error {
			called = true
			return nil
		})

	err := m.Send(context.Background(), Message{Subject: "s", Text: "t"})

	assert.Error(t, err)
	assert.False(t, called)
}

func TestSMTPMailer_Send_CanceledContext(t *testing.T) {
	m := NewSMTPMailer(testConfig(), discardLogger()).WithSendFunc(
		func(string, smtp.Auth, string, []string, []byte) error { return nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, Message{To: []string{"a@x.com"}, Subject: "s", Text: "t"})

	assert.ErrorIs(t, err, context.Canceled)
}
