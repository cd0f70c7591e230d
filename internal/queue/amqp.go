package queue

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const retryHeader = "x-retry-count"

// amqpChannel is the part of *amqp.Channel the queue uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// AMQPQueue publishes JSON payloads to durable queues named after the topic.
// Subscribers receive the raw message body as []byte.
type AMQPQueue struct {
	conn       *amqp.Connection
	ch         amqpChannel
	logger     *zap.Logger
	MaxRetries int
	// Routes renames topics to broker queues. Unlisted topics keep their name.
	Routes map[string]string

	mu       sync.Mutex
	declared map[string]bool
}

// DialAMQP connects to the broker and opens a channel.
func DialAMQP(url string, logger *zap.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	q := NewAMQPQueue(ch, logger)
	q.conn = conn
	return q, nil
}

func NewAMQPQueue(ch amqpChannel, logger *zap.Logger) *AMQPQueue {
	return &AMQPQueue{
		ch:         ch,
		logger:     logger,
		MaxRetries: 3,
		declared:   make(map[string]bool),
	}
}

func (q *AMQPQueue) queueName(topic string) string {
	if name, ok := q.Routes[topic]; ok && name != "" {
		return name
	}
	return topic
}

func (q *AMQPQueue) declare(topic string) error {
	if q.declared[topic] {
		return nil
	}
	_, err := q.ch.QueueDeclare(
		q.queueName(topic), // name
		true,               // durable
		false,              // delete when unused
		false,              // exclusive
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", topic, err)
	}
	q.declared[topic] = true
	return nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, ok := payload.([]byte)
	if !ok {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
	}
	return q.publish(topic, body, 0)
}

func (q *AMQPQueue) publish(topic string, body []byte, retries int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.declare(topic); err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}
	if retries > 0 {
		msg.Headers = amqp.Table{retryHeader: int32(retries)}
	}
	return q.ch.Publish("", q.queueName(topic), false, false, msg)
}

// Subscribe consumes topic with manual acks. A failed message is republished
// with an incremented retry header until MaxRetries, then dropped.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	err := q.declare(topic)
	q.mu.Unlock()
	if err != nil {
		return err
	}

	msgs, err := q.ch.Consume(
		q.queueName(topic),
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			q.handle(topic, d, handler)
		}
	}()
	return nil
}

func (q *AMQPQueue) handle(topic string, d amqp.Delivery, handler func(payload any) error) {
	err := handler(d.Body)
	if err == nil {
		_ = d.Ack(false)
		return
	}

	retries := retryCount(d.Headers)
	if retries >= q.MaxRetries {
		q.logger.Error("message permanently failed", zap.String("topic", topic), zap.Int("attempts", retries+1), zap.Error(err))
		_ = d.Ack(false)
		return
	}
	q.logger.Warn("message failed, requeueing", zap.String("topic", topic), zap.Int("attempt", retries+1), zap.Error(err))
	if perr := q.publish(topic, d.Body, retries+1); perr != nil {
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

func retryCount(h amqp.Table) int {
	switch v := h[retryHeader].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	}
	return 0
}

func (q *AMQPQueue) Close() error {
	err := q.ch.Close()
	if q.conn != nil {
		if cerr := q.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
