package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.VerifyHost)
	assert.Equal(t, "smtp", cfg.MailTransport)
	assert.Equal(t, "no-reply@localhost", cfg.MailSender)
	assert.Equal(t, "worker", cfg.EmailDispatch)
	assert.Equal(t, "html_template", cfg.EmailVariant)
	assert.True(t, cfg.MailSendEnabled)
	assert.False(t, cfg.GeoLookupEnabled)
	assert.Equal(t, 15*time.Second, cfg.MailTimeout)
	assert.Empty(t, cfg.ESAddrs())
	assert.Empty(t, cfg.LogLevel)
	assert.Empty(t, cfg.TrustedProxies())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("VERIFY_HOST", "https://accounts.example.com")
	t.Setenv("MAIL_PORT", "2525")
	t.Setenv("MAIL_SEND_ENABLED", "false")
	t.Setenv("MAIL_TIMEOUT", "3s")
	t.Setenv("EMAIL_ATTACHMENTS", " dog.jpg, ,angular.pdf ")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es1:9200,http://es2:9200")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.17.0.1")

	cfg := Load()

	assert.Equal(t, "https://accounts.example.com", cfg.VerifyHost)
	assert.Equal(t, 2525, cfg.MailPort)
	assert.False(t, cfg.MailSendEnabled)
	assert.Equal(t, 3*time.Second, cfg.MailTimeout)
	assert.Equal(t, []string{"dog.jpg", "angular.pdf"}, cfg.Attachments())
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.ESAddrs())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{"10.0.0.0/8", "172.17.0.1"}, cfg.TrustedProxies())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAIL_PORT", "smtp")
	t.Setenv("MAIL_SEND_ENABLED", "maybe")
	t.Setenv("MAIL_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 587, cfg.MailPort)
	assert.True(t, cfg.MailSendEnabled)
	assert.Equal(t, 15*time.Second, cfg.MailTimeout)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5433", DBName: "users", DBSSLMode: "require"}
	require.Equal(t, "postgres://u:p@db:5433/users?sslmode=require", cfg.PostgresDSN())
}
