package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/saksham2694/drone-meds-express/internal/domain"
)

const (
	TypeOrderPlaced    = "order-placed"
	TypeOrderDelivered = "order-delivered"
)

// OrderEvent is the payload published to the order-events topic.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	Total      float64   `json:"total"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to write order event: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NewOrderPlaced builds the event emitted right after checkout.
func NewOrderPlaced(order *domain.Order) OrderEvent {
	return newOrderEvent(TypeOrderPlaced, order)
}

// NewOrderDelivered builds the event emitted when progress first reaches 100.
func NewOrderDelivered(order *domain.Order) OrderEvent {
	return newOrderEvent(TypeOrderDelivered, order)
}

func newOrderEvent(eventType string, order *domain.Order) OrderEvent {
	return OrderEvent{
		Type:       eventType,
		OrderID:    order.ID.String(),
		UserID:     order.UserID,
		Total:      order.Total,
		Currency:   order.Currency,
		Status:     order.Status.String(),
		OccurredAt: time.Now().UTC(),
	}
}
