package emailworker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-registration/config"
	"github.com/oksasatya/user-registration/pkg/mailer"
)

func TestNewTransport(t *testing.T) {
	cfg := &config.Config{MailSender: "noreply@x.com", MailHost: "smtp.x.com", MailPort: 587}

	s, err := NewTransport(cfg)
	require.NoError(t, err)
	assert.IsType(t, &mailer.SMTP{}, s)

	cfg.MailTransport = "mailgun"
	_, err = NewTransport(cfg)
	require.Error(t, err)

	cfg.MailgunDomain, cfg.MailgunAPIKey = "mg.x.com", "key"
	s, err = NewTransport(cfg)
	require.NoError(t, err)
	assert.IsType(t, &mailer.Mailgun{}, s)

	cfg.MailTransport = "fax"
	_, err = NewTransport(cfg)
	require.Error(t, err)

	_, err = NewTransport(&config.Config{MailHost: "smtp.x.com"})
	require.Error(t, err)
}

func TestNewTransport_WorksWithDefaults(t *testing.T) {
	s, err := NewTransport(config.Load())
	require.NoError(t, err)
	assert.IsType(t, &mailer.SMTP{}, s)
}

func TestNewAssetSource_DefaultsToDir(t *testing.T) {
	src := NewAssetSource(&config.Config{EmailAssetsDir: "assets", EmailAssetsGCSBucket: "bucket"}, nil)
	assert.Equal(t, mailer.DirSource{Root: "assets"}, src)
}

func TestNewProcessor_GeoToggle(t *testing.T) {
	p := NewProcessor(&config.Config{}, nil, nil, nil)
	assert.Nil(t, p.Resolver)

	p = NewProcessor(&config.Config{GeoLookupEnabled: true}, nil, nil, nil)
	assert.NotNil(t, p.Resolver)
}
