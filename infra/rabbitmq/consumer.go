package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"itemstore/pkg/events"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type EventHandler func(ctx context.Context, event *events.Event) error

type Consumer struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	queueName   string
	serviceName string
	workers     int
}

type ConsumerConfig struct {
	Exchange       string   // e.g., "itemstore.item"
	QueueName      string   // e.g., "itemstore.archive.item.v1"
	RoutingKeys    []string // e.g., ["item.*.v1"]
	ServiceName    string
	PrefetchCount  int // 0 means 10
	WorkerPoolSize int // 0 means 1
}

// NewConsumer declares the exchange, the queue and its dead letter pair,
// then binds them for every routing key.
func NewConsumer(url string, config ConsumerConfig) (*Consumer, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	fail := func(format string, err error) (*Consumer, error) {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf(format, err)
	}

	prefetchCount := config.PrefetchCount
	if prefetchCount == 0 {
		prefetchCount = 10
	}
	if err := channel.Qos(prefetchCount, 0, false); err != nil {
		return fail("failed to set QoS: %w", err)
	}

	if err := declareTopicExchange(channel, config.Exchange); err != nil {
		return fail("failed to declare exchange: %w", err)
	}

	dlxName := config.Exchange + ".dlx"
	if err := declareTopicExchange(channel, dlxName); err != nil {
		return fail("failed to declare DLX: %w", err)
	}

	queue, err := channel.QueueDeclare(
		config.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-dead-letter-exchange": dlxName},
	)
	if err != nil {
		return fail("failed to declare queue: %w", err)
	}

	dlqName := config.QueueName + ".dlq"
	if _, err := channel.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
		return fail("failed to declare DLQ: %w", err)
	}

	for _, routingKey := range config.RoutingKeys {
		if err := channel.QueueBind(dlqName, routingKey, dlxName, false, nil); err != nil {
			return fail("failed to bind DLQ: %w", err)
		}
		if err := channel.QueueBind(queue.Name, routingKey, config.Exchange, false, nil); err != nil {
			return fail("failed to bind queue: %w", err)
		}
	}

	workers := config.WorkerPoolSize
	if workers < 1 {
		workers = 1
	}

	zap.L().Info("RabbitMQ consumer created successfully",
		zap.String("queue", config.QueueName),
		zap.String("exchange", config.Exchange),
		zap.Strings("routingKeys", config.RoutingKeys),
		zap.Int("workers", workers),
	)

	return &Consumer{
		conn:        conn,
		channel:     channel,
		queueName:   config.QueueName,
		serviceName: config.ServiceName,
		workers:     workers,
	}, nil
}

// Consume dispatches deliveries to a pool of workers until ctx is done or
// the broker closes the delivery channel.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	msgs, err := c.channel.Consume(
		c.queueName,
		c.serviceName, // consumer tag
		false,         // manual ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	zap.L().Info("Started consuming messages", zap.String("queue", c.queueName))

	var wg sync.WaitGroup
	errCh := make(chan error, c.workers)

	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-msgs:
					if !ok {
						errCh <- errors.New("message channel closed")
						return
					}
					c.handleMessage(ctx, msg, handler)
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)

	if ctx.Err() != nil {
		zap.L().Info("Consumer context cancelled, stopping...")
		return ctx.Err()
	}
	if err := <-errCh; err != nil {
		zap.L().Warn("Message channel closed")
		return err
	}

	return nil
}

func (c *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery, handler EventHandler) {
	traceID, _ := msg.Headers["x-trace-id"].(string)
	service, _ := msg.Headers["x-service"].(string)

	log := zap.L().With(
		zap.String("queue", c.queueName),
		zap.String("routingKey", msg.RoutingKey),
		zap.String("traceId", traceID),
		zap.String("sourceService", service),
	)

	var event events.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Error("Failed to unmarshal event", zap.Error(err))
		// malformed messages go to the DLQ
		_ = msg.Nack(false, false)
		return
	}

	processCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := handler(processCtx, &event); err != nil {
		log.Error("Failed to process event", zap.String("event", event.Event), zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	if err := msg.Ack(false); err != nil {
		log.Error("Failed to acknowledge message", zap.Error(err))
		return
	}

	log.Debug("Processed event", zap.String("event", event.Event), zap.String("eventId", event.ID))
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			zap.L().Error("Failed to close channel", zap.Error(err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			zap.L().Error("Failed to close connection", zap.Error(err))
			return err
		}
	}
	zap.L().Info("RabbitMQ consumer closed")
	return nil
}
