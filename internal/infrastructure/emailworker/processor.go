package emailworker

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-registration/internal/observability/metrics"
	"github.com/oksasatya/user-registration/pkg/helpers"
	"github.com/oksasatya/user-registration/pkg/mailer"
	mailtpl "github.com/oksasatya/user-registration/pkg/mailer/templates"
)

// Handler processes one email job.
type Handler interface {
	Process(ctx context.Context, job mailer.EmailJob) error
}

// Processor renders and sends a single email job. It never retries.
type Processor struct {
	Sender   mailer.Sender
	Assets   mailer.AssetSource
	Resolver mailtpl.GeoResolver // nil skips localisation
	Timeout  time.Duration
	Logger   *logrus.Logger
}

func (p *Processor) Process(ctx context.Context, job mailer.EmailJob) error {
	variant := string(job.Variant)
	log := p.entry(job)

	helpers.EnsureRecipientAndEmail(&job)
	helpers.LocalizeTimesIfPossible(ctx, p.Resolver, job.Data)

	msg, err := mailer.Compose(ctx, job, p.Assets)
	if err != nil {
		metrics.EmailsTotal.WithLabelValues(variant, "failed").Inc()
		log.WithError(err).Error("compose email failed")
		return fmt.Errorf("compose email to %s: %w", job.To, err)
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.Sender.Send(c, msg); err != nil {
		metrics.EmailsTotal.WithLabelValues(variant, "failed").Inc()
		log.WithError(err).Error("send email failed")
		return fmt.Errorf("send email to %s: %w", job.To, err)
	}

	metrics.EmailsTotal.WithLabelValues(variant, "sent").Inc()
	log.Info("email sent")
	return nil
}

func (p *Processor) entry(job mailer.EmailJob) *logrus.Entry {
	logger := p.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger.WithFields(logrus.Fields{"to": job.To, "variant": job.Variant, "template": job.Template})
}
