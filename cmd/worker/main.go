package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"itemstore/infra/rabbitmq"
	"itemstore/internal/consumers"
	"itemstore/pkg/aws"
	"itemstore/pkg/config"
	"itemstore/pkg/events"
	"itemstore/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()

	log := logger.New(logger.Options{
		Service: appConfig.ServiceName + "-worker",
		Level:   appConfig.LogLevel,
		Path:    appConfig.LogPath,
	})
	defer log.Sync()

	zap.L().Info("Item archive worker starting...")

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}
	if appConfig.AWSBucket == "" {
		zap.L().Fatal("AWS_BUCKET is required for worker service")
	}

	bucket := aws.NewS3Bucket(appConfig)
	defer bucket.Close()

	archiver := consumers.NewItemArchiver(bucket, appConfig.ArchivePrefix)

	// Queue name: {service}.{purpose}.{domain}.{version}
	consumerConfig := rabbitmq.ConsumerConfig{
		Exchange:       events.ItemExchange,
		QueueName:      "itemstore.archive.item.v1",
		RoutingKeys:    []string{"item.*.v1"},
		ServiceName:    appConfig.ServiceName,
		PrefetchCount:  10,
		WorkerPoolSize: 4,
	}

	consumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, consumerConfig)
	if err != nil {
		zap.L().Fatal("Failed to create item consumer", zap.Error(err))
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		zap.L().Info("Starting item event consumer...")
		if err := consumer.Consume(ctx, archiver.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
			zap.L().Error("Item consumer error", zap.Error(err))
		}
	}()

	zap.L().Info("Worker service started successfully. Waiting for events...",
		zap.String("exchange", consumerConfig.Exchange),
		zap.String("queue", consumerConfig.QueueName),
	)

	select {
	case <-sigChan:
		zap.L().Info("Shutdown signal received, stopping worker service...")
	case <-consumerDone:
		zap.L().Warn("Consumer stopped, shutting down worker service...")
	}
	cancel()
	<-consumerDone

	zap.L().Info("Worker service stopped gracefully")
}
