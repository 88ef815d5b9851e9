package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/user-registration/pkg/mailer/templates"
)

// Compose renders job into a Message for its variant, loading any attachment
// or inline assets from assets.
func Compose(ctx context.Context, job EmailJob, assets AssetSource) (Message, error) {
	variant := job.Variant
	if variant == "" {
		variant = HTMLTemplate
	}

	msg := Message{To: job.To, Subject: job.Subject, Text: job.Text, HTML: job.HTML}
	if job.Template != "" {
		data := make(map[string]any, len(job.Data)+1)
		for k, v := range job.Data {
			data[k] = v
		}
		if variant == HTMLInlineImage {
			data["InlineImageCID"] = InlineImageCID
		}
		s, t, h, err := templates.Render(job.Template, data)
		if err != nil {
			return Message{}, err
		}
		msg.Subject, msg.Text, msg.HTML = s, t, h
	}

	switch variant {
	case PlainText:
		msg.HTML = ""
	case MimeAttachments, MimeEmbedded:
		msg.HTML = ""
		msg.Priority = 1
		for _, name := range job.Attachments {
			a, err := load(ctx, assets, name)
			if err != nil {
				return Message{}, err
			}
			if variant == MimeAttachments {
				msg.Attachments = append(msg.Attachments, a)
			} else {
				msg.Inline = append(msg.Inline, a)
			}
		}
	case HTMLTemplate:
		msg.Text = ""
		msg.Priority = 1
	case HTMLInlineImage:
		msg.Text = ""
		msg.Priority = 1
		if job.InlineImage == "" {
			return Message{}, errors.New("html_inline_image variant requires an inline image")
		}
		a, err := load(ctx, assets, job.InlineImage)
		if err != nil {
			return Message{}, err
		}
		a.ContentID = InlineImageCID
		msg.Inline = append(msg.Inline, a)
	default:
		return Message{}, fmt.Errorf("unknown email variant %q", variant)
	}

	if msg.Text == "" && msg.HTML == "" {
		return Message{}, errors.New("email has no body")
	}
	return msg, nil
}

func load(ctx context.Context, assets AssetSource, name string) (Asset, error) {
	if assets == nil {
		return Asset{}, fmt.Errorf("asset %q: no asset source configured", name)
	}
	b, err := assets.Read(ctx, name)
	if err != nil {
		return Asset{}, fmt.Errorf("asset %q: %w", name, err)
	}
	return Asset{Name: name, Data: b}, nil
}
