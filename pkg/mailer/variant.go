package mailer

import (
	"fmt"
	"strings"
)

// Variant selects how a verification message is built.
type Variant string

const (
	PlainText       Variant = "plain_text"
	MimeAttachments Variant = "mime_attachments"
	MimeEmbedded    Variant = "mime_embedded"
	HTMLTemplate    Variant = "html_template"
	HTMLInlineImage Variant = "html_inline_image"
)

// InlineImageCID is the Content-ID the html_inline_image variant embeds its image under.
const InlineImageCID = "image"

// ParseVariant maps a config value to a Variant. Empty means HTMLTemplate.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return HTMLTemplate, nil
	case PlainText, MimeAttachments, MimeEmbedded, HTMLTemplate, HTMLInlineImage:
		return v, nil
	default:
		return "", fmt.Errorf("unknown email variant %q", s)
	}
}
