package mailer

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun sends messages through the Mailgun HTTP API.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

// Send delivers msg. Inline parts are addressable from HTML as cid:<ContentID>.
func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	message := client.NewMessage(m.Sender, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}
	if msg.Priority > 0 {
		message.AddHeader("X-Priority", strconv.Itoa(msg.Priority))
	}
	for _, a := range msg.Attachments {
		message.AddBufferAttachment(a.Name, a.Data)
	}
	for _, a := range msg.Inline {
		message.AddReaderInline(a.cid(), io.NopCloser(bytes.NewReader(a.Data)))
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, message)
	return err
}

var _ Sender = (*Mailgun)(nil)
