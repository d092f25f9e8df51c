package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"ask_saturation/internal/models"
)

// AMQPDispatcher publishes orders as persistent JSON messages on a durable
// topic exchange, routed by destination center.
type AMQPDispatcher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func DialAMQP(url, exchange string) (*AMQPDispatcher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPDispatcher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (d *AMQPDispatcher) Dispatch(ctx context.Context, order models.ShiftOrder) error {
	msg, err := buildPublishing(order)
	if err != nil {
		return err
	}
	if err := d.ch.PublishWithContext(ctx, d.exchange, RoutingKey(order), false, false, msg); err != nil {
		return fmt.Errorf("publish shift %s: %w", order.ID, err)
	}
	return nil
}

func (d *AMQPDispatcher) Close() {
	if d == nil {
		return
	}
	if d.ch != nil {
		_ = d.ch.Close()
	}
	if d.conn != nil {
		_ = d.conn.Close()
	}
}

// RoutingKey is "shift.<slug of destination center>".
func RoutingKey(order models.ShiftOrder) string {
	return "shift." + slug(order.To)
}

func buildPublishing(order models.ShiftOrder) (amqp.Publishing, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		MessageId:    order.ID.String(),
		Timestamp:    order.IssuedAt.UTC(),
		ContentType:  "application/json",
		Type:         "resource.shift",
		Body:         body,
	}, nil
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
