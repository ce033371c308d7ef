package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/paatrickbarbosa/RoomS/internal/events"
)

const publishTimeout = 5 * time.Second

// AMQP mirrors the fan-out onto a RabbitMQ topic exchange so external
// subscribers receive the same events as connected websocket clients.
// Routing keys follow the event types (booking_created → booking.created),
// so a consumer can bind "booking.*" or "conflict.detected" selectively.
type AMQP struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQP(url, exchange string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return &AMQP{conn: conn, ch: ch, exchange: exchange}, nil
}

func (a *AMQP) Broadcast(ctx context.Context, ev events.Event) error {
	key, msg, err := message(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return a.ch.PublishWithContext(ctx, a.exchange, key, false, false, msg)
}

// message builds the wire form of an event: the routing key derived from
// its type and a persistent JSON delivery, so events survive a broker
// restart while queued.
func message(ev events.Event) (string, amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return "", amqp.Publishing{}, err
	}
	return ev.Type.RoutingKey(), amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         string(ev.Type),
		Timestamp:    time.Now(),
		Body:         body,
	}, nil
}

func (a *AMQP) Close() error {
	if a.ch != nil {
		_ = a.ch.Close()
	}
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}
