package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"catering/internal/domain/booking"

	amqp "github.com/rabbitmq/amqp091-go"
)

const RoutingKeyBookingCreated = "booking.created"

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQP publishes bookings to a topic exchange for downstream automation.
type AMQP struct {
	conn     *amqp.Connection
	ch       channel
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
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQP{conn: conn, ch: ch, exchange: exchange}, nil
}

func (a *AMQP) Notify(ctx context.Context, n booking.Notification) (booking.NotifyResult, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return booking.NotifyResult{}, fmt.Errorf("encode notification: %w", err)
	}
	err = a.ch.PublishWithContext(ctx, a.exchange, RoutingKeyBookingCreated, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     n.BookingReference,
		CorrelationId: n.ID,
		Body:          b,
	})
	if err != nil {
		return booking.NotifyResult{}, fmt.Errorf("publish %s: %w", RoutingKeyBookingCreated, err)
	}
	return booking.NotifyResult{Success: true}, nil
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
