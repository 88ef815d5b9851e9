package emailworker

import (
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-registration/config"
	"github.com/oksasatya/user-registration/pkg/helpers"
	"github.com/oksasatya/user-registration/pkg/mailer"
	mailtpl "github.com/oksasatya/user-registration/pkg/mailer/templates"
)

// NewTransport builds the sender named by MAIL_TRANSPORT (smtp or mailgun).
func NewTransport(cfg *config.Config) (mailer.Sender, error) {
	if cfg.MailSender == "" {
		return nil, errors.New("MAIL_SENDER is required")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.MailTransport)) {
	case "", "smtp":
		if cfg.MailHost == "" {
			return nil, errors.New("MAIL_HOST is required for smtp transport")
		}
		return mailer.NewSMTP(cfg.MailHost, cfg.MailPort, cfg.MailUsername, cfg.MailPassword, cfg.MailSender), nil
	case "mailgun":
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
			return nil, errors.New("MAILGUN_DOMAIN and MAILGUN_API_KEY are required for mailgun transport")
		}
		return mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailSender), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.MailTransport)
	}
}

// NewAssetSource serves attachment and inline files from the GCS bucket when
// one is configured, else from EMAIL_ASSETS_DIR.
func NewAssetSource(cfg *config.Config, gcs *storage.Client) mailer.AssetSource {
	if cfg.EmailAssetsGCSBucket != "" && gcs != nil {
		return helpers.GCSAssets{Client: gcs, Bucket: cfg.EmailAssetsGCSBucket}
	}
	return mailer.DirSource{Root: cfg.EmailAssetsDir}
}

func NewProcessor(cfg *config.Config, sender mailer.Sender, assets mailer.AssetSource, logger *logrus.Logger) *Processor {
	p := &Processor{Sender: sender, Assets: assets, Timeout: cfg.MailTimeout, Logger: logger}
	if cfg.GeoLookupEnabled {
		p.Resolver = mailtpl.IPAPIResolver{}
	}
	return p
}
