package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func captureSMTP(buf *bytes.Buffer) *SMTP {
	s := NewSMTP("localhost", 2525, "", "", "noreply@example.com")
	s.send = func(msgs ...*gomail.Message) error {
		for _, m := range msgs {
			if _, err := m.WriteTo(buf); err != nil {
				return err
			}
		}
		return nil
	}
	return s
}

func TestSMTP_PlainText(t *testing.T) {
	var buf bytes.Buffer
	s := captureSMTP(&buf)

	err := s.Send(context.Background(), Message{To: "ana@x.com", Subject: "New user account verification", Text: "Hello Ana"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "From: noreply@example.com")
	assert.Contains(t, out, "To: ana@x.com")
	assert.Contains(t, out, "Subject: New user account verification")
	assert.Contains(t, out, "text/plain")
	assert.NotContains(t, out, "X-Priority")
}

func TestSMTP_AttachmentsAndInline(t *testing.T) {
	var buf bytes.Buffer
	s := captureSMTP(&buf)

	err := s.Send(context.Background(), Message{
		To:          "ana@x.com",
		Subject:     "s",
		HTML:        `<img src="cid:image">`,
		Priority:    1,
		Attachments: []Asset{{Name: "angular.pdf", Data: []byte("pdf")}},
		Inline:      []Asset{{Name: "dog.jpg", ContentID: "image", Data: []byte("jpg")}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "X-Priority: 1")
	assert.Contains(t, out, "text/html")
	assert.Contains(t, out, `attachment; filename="angular.pdf"`)
	assert.Contains(t, out, `inline; filename="dog.jpg"`)
	assert.Contains(t, out, "Content-ID: <image>")
}

func TestSMTP_TransportError(t *testing.T) {
	s := NewSMTP("localhost", 2525, "", "", "noreply@example.com")
	s.send = func(...*gomail.Message) error { return errors.New("connection refused") }

	err := s.Send(context.Background(), Message{To: "ana@x.com", Subject: "s", Text: "t"})
	require.EqualError(t, err, "connection refused")
}

func TestSMTP_ContextDeadline(t *testing.T) {
	s := NewSMTP("localhost", 2525, "", "", "noreply@example.com")
	release := make(chan struct{})
	defer close(release)
	s.send = func(...*gomail.Message) error { <-release; return nil }

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.Send(ctx, Message{To: "ana@x.com", Subject: "s", Text: "t"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
