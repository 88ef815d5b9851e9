package mailer

import "context"

// Asset is a file carried by a message, either attached or inline.
type Asset struct {
	Name      string
	ContentID string // inline parts only; defaults to Name
	Data      []byte
}

func (a Asset) cid() string {
	if a.ContentID != "" {
		return a.ContentID
	}
	return a.Name
}

// Message is a fully composed email ready for a transport.
type Message struct {
	To       string
	Subject  string
	Text     string
	HTML     string
	Priority int // X-Priority, 1 (highest) to 5; 0 leaves it unset

	Attachments []Asset
	Inline      []Asset
}

// Sender delivers a composed message through a mail transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
