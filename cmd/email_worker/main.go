package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/joho/godotenv"

	"github.com/oksasatya/user-registration/config"
	"github.com/oksasatya/user-registration/internal/infrastructure/emailworker"
	"github.com/oksasatya/user-registration/pkg/helpers"
)

// email_worker drains the verification email queue filled by the API when
// EMAIL_DISPATCH=rabbitmq. Failed jobs are dropped, not retried.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	sender, err := emailworker.NewTransport(cfg)
	if err != nil {
		log.Fatalf("mail transport: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var gcsClient *storage.Client
	if cfg.EmailAssetsGCSBucket != "" {
		gcsClient, err = helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("gcs: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
	}

	conn, ch, err := helpers.DialRabbit(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	// prefetch keeps dispatch fair across worker replicas
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	proc := emailworker.NewProcessor(cfg, sender, emailworker.NewAssetSource(cfg, gcsClient), logger)
	consumer := &emailworker.Consumer{Handler: proc, Logger: logger}

	done := make(chan struct{})
	go func() {
		consumer.Run(ctx, msgs)
		close(done)
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-ctx.Done()
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
