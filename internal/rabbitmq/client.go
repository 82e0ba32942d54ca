package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/WardrobeApp/internal/config"
	"github.com/GoArmGo/WardrobeApp/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client представляет собой клиент RabbitMQ для очереди каскадных задач
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	cfg     *config.Config
	logger  *slog.Logger
}

// NewClient создает и инициализирует новый клиент RabbitMQ
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	client := &Client{
		cfg:    cfg,
		logger: logger,
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	client.conn = conn

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	client.channel = ch

	// Объявление очереди идемпотентно: очередь создается при отсутствии
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName, // name
		true,                           // durable - задачи переживают перезапуск брокера
		false,                          // delete when unused
		false,                          // exclusive
		false,                          // no-wait
		nil,                            // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}
	client.queue = q

	logger.Info("rabbitmq queue declared", "queue", q.Name, "messages", q.Messages)
	return client, nil
}

// Close закрывает соединение и канал RabbitMQ
func (c *Client) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error("failed to close RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("failed to close RabbitMQ connection", "error", err)
			return err
		}
	}
	return nil
}

// PublishCascadeTask публикует задачу каскадной очистки в очередь.
// Реализует интерфейс ports.CascadePublisher.
func (c *Client) PublishCascadeTask(ctx context.Context, payload payloads.CascadePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}

	c.logger.Info("cascade task published", "queue", c.queue.Name, "kind", payload.Kind, "id", payload.ID)
	return nil
}

// StartConsumingCascadeTasks начинает потребление задач из очереди.
// Реализует интерфейс ports.CascadeConsumer.
func (c *Client) StartConsumingCascadeTasks(ctx context.Context, handler func(context.Context, payloads.CascadePayload) error) error {
	msgs, err := c.channel.Consume(
		c.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack (подтверждаем вручную)
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("cascade consumer registered", "queue", c.queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Info("rabbitmq channel closed, stopping consumer")
					return
				}

				var payload payloads.CascadePayload
				if err := json.Unmarshal(msg.Body, &payload); err != nil {
					c.logger.Error("failed to unmarshal cascade task", "error", err, "body", string(msg.Body))
					// Сообщение битое: отклоняем без возврата в очередь,
					// иначе застрянем в бесконечном цикле ошибок
					if err := msg.Nack(false, false); err != nil {
						c.logger.Error("failed to nack malformed message", "error", err)
					}
					continue
				}

				if err := handler(ctx, payload); err != nil {
					c.logger.Error("cascade task failed", "kind", payload.Kind, "id", payload.ID, "error", err)
					// Обработка не удалась: возвращаем задачу в очередь
					if err := msg.Nack(false, true); err != nil {
						c.logger.Error("failed to nack message", "error", err)
					}
				} else {
					if err := msg.Ack(false); err != nil {
						c.logger.Error("failed to ack message", "error", err)
					}
					c.logger.Info("cascade task processed", "kind", payload.Kind, "id", payload.ID)
				}
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping cascade consumer")
				return
			}
		}
	}()

	return nil
}
