package emailworker

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-registration/pkg/mailer"
)

// Consumer drains RabbitMQ deliveries into a Handler.
// Failed jobs are dropped (nack without requeue); nothing is retried.
type Consumer struct {
	Handler Handler
	Logger  *logrus.Logger
}

// Run blocks until deliveries is closed or ctx is done.
func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			c.Handle(ctx, d)
		}
	}
}

func (c *Consumer) Handle(ctx context.Context, d amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		c.logf(err, "bad message")
		_ = d.Nack(false, false)
		return
	}
	if err := c.Handler.Process(ctx, job); err != nil {
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (c *Consumer) logf(err error, msg string) {
	if c.Logger != nil {
		c.Logger.WithError(err).Warn(msg)
	}
}
