// Package events publishes order lifecycle events to Kafka. The
// publisher is optional wiring: when Kafka is disabled the checkout
// service simply runs without a notifier.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"github.com/sofra-eats/sofra/internal/models"
)

// OrderPlacedEvent is the payload written for each successful checkout.
type OrderPlacedEvent struct {
	OrderID   int64   `json:"order_id"`
	UserID    string  `json:"user_id"`
	Subtotal  float64 `json:"subtotal"`
	VAT       float64 `json:"vat"`
	Delivery  float64 `json:"delivery_fee"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
	PlacedAt  int64   `json:"placed_at"`
}

// Publisher writes order events through a synchronous Kafka producer.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher connects to the given brokers. The producer waits for
// full acknowledgement so a returned nil error means the event landed.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true // required for SyncProducer
	cfg.Net.DialTimeout = 30 * time.Second
	cfg.Net.ReadTimeout = 30 * time.Second
	cfg.Net.WriteTimeout = 30 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	slog.Info("Kafka producer ready", "brokers", brokers, "topic", topic)
	return &Publisher{producer: producer, topic: topic}, nil
}

// OrderPlaced publishes an order.placed event for the given order.
func (p *Publisher) OrderPlaced(ctx context.Context, o *models.Order, subtotal, vat, delivery float64) error {
	event := OrderPlacedEvent{
		OrderID:   o.ID,
		UserID:    o.UserID,
		Subtotal:  subtotal,
		VAT:       vat,
		Delivery:  delivery,
		Total:     o.TotalAmount,
		ItemCount: len(o.Items),
		PlacedAt:  o.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("%d", o.ID)),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

// Close shuts the producer down.
func (p *Publisher) Close() error {
	return p.producer.Close()
}
