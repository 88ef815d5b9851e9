package emailworker

import (
	"context"

	"github.com/oksasatya/user-registration/pkg/mailer"
)

type publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueDispatcher hands jobs to the RabbitMQ queue consumed by cmd/email_worker.
type QueueDispatcher struct {
	Pub publisher
}

func NewQueueDispatcher(pub publisher) *QueueDispatcher {
	return &QueueDispatcher{Pub: pub}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, job mailer.EmailJob) error {
	return d.Pub.PublishJSON(ctx, job)
}
