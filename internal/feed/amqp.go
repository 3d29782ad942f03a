package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"fixo-backend/internal/domain"
	"fixo-backend/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPFeed is the broker-backed Feed for multi-instance deployments.
// Updates are published to a topic exchange with routing key
// "location.<booking_id>"; each subscription gets its own auto-delete
// queue bound to that key. Delivery order across keys is not guaranteed.
type AMQPFeed struct {
	conn     *amqp.Connection
	pubCh    *amqp.Channel
	exchange string
}

func NewAMQPFeed(url, exchange string) (*AMQPFeed, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
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
	return &AMQPFeed{conn: conn, pubCh: ch, exchange: exchange}, nil
}

func routingKey(bookingID string) string {
	return "location." + bookingID
}

func (f *AMQPFeed) Publish(ctx context.Context, loc domain.ProviderLocation) error {
	body, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return f.pubCh.PublishWithContext(ctx, f.exchange, routingKey(loc.BookingID), false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (f *AMQPFeed) Subscribe(bookingID string, fn Handler) (*Subscription, error) {
	ch, err := f.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	// Exclusive auto-delete queue: one per viewer, gone when it leaves.
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, routingKey(bookingID), f.exchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consume: %w", err)
	}

	go func() {
		for d := range deliveries {
			var loc domain.ProviderLocation
			if err := json.Unmarshal(d.Body, &loc); err != nil {
				logger.Warn("Discarding malformed location update", "booking_id", bookingID, "error", err)
				continue
			}
			fn(loc)
		}
	}()

	return newSubscription(func() {
		if err := ch.Close(); err != nil {
			logger.Warn("Failed to close feed channel", "booking_id", bookingID, "error", err)
		}
	}), nil
}

func (f *AMQPFeed) Close() error {
	if f.pubCh != nil {
		_ = f.pubCh.Close()
	}
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}
