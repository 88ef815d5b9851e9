package templates

import (
	"net/url"
	"strings"
	"time"

	"github.com/oksasatya/user-registration/config"
)

const timeLayout = "02 January 2006, 15:04"

// Option adjusts EmailData before it is flattened into job data.
type Option func(*EmailData)

func WithIP(ip string) Option { return func(d *EmailData) { d.IP = ip } }

func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }

// WithTime stamps the request time in UTC; workers may re-render it in the
// client's zone later.
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		d.TimeAt = t.UTC()
		d.Time = d.TimeAt.Format(timeLayout)
	}
}

// VerificationURL builds {host}/api/v1/users?token={token}.
func VerificationURL(host, token string) string {
	q := url.Values{"token": {token}}
	return strings.TrimRight(host, "/") + "/api/v1/users?" + q.Encode()
}

// NewVerifyAccountData returns the job data for the account verification email.
func NewVerifyAccountData(cfg *config.Config, name, email, verifyURL string, opts ...Option) map[string]any {
	d := EmailData{
		Type:           VerifyAccount,
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		VerifyURL:      verifyURL,
		AppName:        cfg.AppName,
		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
