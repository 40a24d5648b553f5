package messagequeue

import (
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// rabbitMQService implements MessageQueue using RabbitMQ.
type rabbitMQService struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
}

// NewRabbitMQService dials the broker and opens a channel.
func NewRabbitMQService(url string, logger *zap.Logger) (MessageQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	logger.Info("connected to RabbitMQ")
	return &rabbitMQService{conn: conn, channel: ch, logger: logger}, nil
}

// Publish sends a persistent message to a durable queue, declaring the queue
// if it does not exist yet.
func (s *rabbitMQService) Publish(queueName string, body []byte) error {
	q, err := s.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	err = s.channel.Publish(
		"",     // default exchange
		q.Name, // routing key
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
	if err != nil {
		return fmt.Errorf("failed to publish to queue %s: %w", queueName, err)
	}
	return nil
}

// Consume runs handler for each message on the queue. It blocks until the
// channel is closed.
func (s *rabbitMQService) Consume(queueName string, handler func(body []byte)) error {
	q, err := s.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	msgs, err := s.channel.Consume(
		q.Name,
		"",    // consumer tag
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer for queue %s: %w", queueName, err)
	}

	s.logger.Info("consuming messages", zap.String("queue", q.Name))
	for d := range msgs {
		handler(d.Body)
	}
	return nil
}

// Close closes the channel and connection.
func (s *rabbitMQService) Close() error {
	var lastErr error
	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			lastErr = err
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
