package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/yeremiapane/burger-storefront/models"
)

const OrderSubmittedQueue = "order.submitted"

// OrderSubmittedEvent is published after an order was handed to the endpoint.
type OrderSubmittedEvent struct {
	EventID    string                `json:"eventId"`
	EventName  string                `json:"eventName"`
	Producer   string                `json:"producer"`
	OccurredAt time.Time             `json:"occurredAt"`
	Reference  string                `json:"reference"`
	Phone      string                `json:"phone"`
	Items      []models.LineItem     `json:"items"`
	Totals     models.TotalsSnapshot `json:"totals"`
}

func NewOrderSubmittedEvent(order models.Order, now time.Time) OrderSubmittedEvent {
	return OrderSubmittedEvent{
		EventID:    uuid.NewString(),
		EventName:  "OrderSubmitted",
		Producer:   "burger-storefront",
		OccurredAt: now.UTC(),
		Reference:  order.Reference,
		Phone:      order.Customer.Phone,
		Items:      order.Items,
		Totals:     order.Totals,
	}
}

// AMQPOrderPublisher sends OrderSubmittedEvent to RabbitMQ.
type AMQPOrderPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// DialOrderPublisher connects to url and declares the queue.
func DialOrderPublisher(url string) (*AMQPOrderPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(OrderSubmittedQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare %s: %w", OrderSubmittedQueue, err)
	}
	return &AMQPOrderPublisher{conn: conn, ch: ch}, nil
}

func (p *AMQPOrderPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

func (p *AMQPOrderPublisher) PublishOrderSubmitted(ctx context.Context, order models.Order) error {
	body, err := json.Marshal(NewOrderSubmittedEvent(order, time.Now()))
	if err != nil {
		return fmt.Errorf("marshal OrderSubmitted: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		"",                  // default exchange
		OrderSubmittedQueue, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    order.Reference,
			Body:         body,
		},
	)
}
