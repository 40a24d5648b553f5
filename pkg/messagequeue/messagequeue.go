// Package messagequeue provides an asynchronous publish/consume abstraction
// backed by RabbitMQ. It is used to hand payment gateway webhook events off to
// downstream consumers without blocking the request path.
package messagequeue

// MessageQueue defines the interface for message queue services.
type MessageQueue interface {
	Publish(queueName string, body []byte) error
	Consume(queueName string, handler func(body []byte)) error
	Close() error
}
