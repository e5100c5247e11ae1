package rabbitmq

import (
	"fmt"
	"time"

	"github.com/mini-maxit/tester/internal/rabbitmq/channel"
	amqp "github.com/rabbitmq/amqp091-go"
)

const dialTimeout = 5 * time.Second

// NewRabbitMqConnection dials the broker at url.
func NewRabbitMqConnection(url string) (*amqp.Connection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Dial:      amqp.DefaultDial(dialTimeout),
		Heartbeat: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// NewRabbitMQChannel opens a channel on conn.
func NewRabbitMQChannel(conn *amqp.Connection) (channel.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	return channel.NewAmqpChannel(ch), nil
}
