package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/streadway/amqp"
)

const (
	DefaultExchange   = "resume_events"
	DefaultRoutingKey = "resume.processed"
)

type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPClient publishes messages to a RabbitMQ topic exchange.
type AMQPClient struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	channel    func() (amqpChannel, error)
	exchange   string
	routingKey string
}

// NewAMQPClient dials url and declares the durable topic exchange.
func NewAMQPClient(url, exchange, routingKey string) (*AMQPClient, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	if routingKey == "" {
		routingKey = DefaultRoutingKey
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &AMQPClient{
		conn: conn,
		channel: func() (amqpChannel, error) {
			return conn.Channel()
		},
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

// Send publishes msg as a persistent JSON message on a short-lived channel.
func (a *AMQPClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode amqp message: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	ch, err := a.channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel: %w", err)
	}
	defer ch.Close()

	err = ch.Publish(a.exchange, a.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.RequestID,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// Close closes the broker connection.
func (a *AMQPClient) Close() error {
	if a.conn == nil {
		return nil
	}
	return a.conn.Close()
}

var _ Client = (*AMQPClient)(nil)
