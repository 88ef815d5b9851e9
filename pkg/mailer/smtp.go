package mailer

import (
	"context"
	"io"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SMTP sends messages through an SMTP relay.
type SMTP struct {
	From string

	send func(m ...*gomail.Message) error
}

func NewSMTP(host string, port int, username, password, from string) *SMTP {
	d := gomail.NewDialer(host, port, username, password)
	return &SMTP{From: from, send: d.DialAndSend}
}

// Send delivers msg. gomail has no context support, so a cancelled ctx only
// stops the wait; the dial/send still runs to completion in the background.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	m := s.build(msg)
	errc := make(chan error, 1)
	go func() { errc <- s.send(m) }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SMTP) build(msg Message) *gomail.Message {
	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetHeader("From", s.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.Priority > 0 {
		m.SetHeader("X-Priority", strconv.Itoa(msg.Priority))
	}

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}

	for _, a := range msg.Attachments {
		m.Attach(a.Name, copyBytes(a.Data))
	}
	for _, a := range msg.Inline {
		m.Embed(a.Name, copyBytes(a.Data), gomail.SetHeader(map[string][]string{
			"Content-ID": {"<" + a.cid() + ">"},
		}))
	}
	return m
}

func copyBytes(b []byte) gomail.FileSetting {
	return gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
}

var _ Sender = (*SMTP)(nil)
