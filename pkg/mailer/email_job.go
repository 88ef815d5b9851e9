package mailer

// EmailJob is the JSON payload handed to the dispatcher (in-process pool or
// RabbitMQ queue) for sending email.
// Either Template+Data or a raw Subject with Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Variant  Variant        `json:"variant,omitempty"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "verify_account"
	Data     map[string]any `json:"data,omitempty"`

	// Asset names resolved through an AssetSource by the MIME variants.
	Attachments []string `json:"attachments,omitempty"`
	InlineImage string   `json:"inline_image,omitempty"`
}
