package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"feedgen/internal/logger"
)

const Topic = "product-events"

const (
	TypeProductCreated = "product.created"
	TypeProductUpdated = "product.updated"
)

// Event announces a catalog change to downstream consumers.
type Event struct {
	Type      string    `json:"type"`
	ProductID int64     `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher writes product events. Publishing is best effort: the
// synchronous request path never depends on the broker being up.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers string, logger *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(brokers, ",")...),
		Topic:    Topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

func (p *Publisher) Publish(ctx context.Context, eventType string, productID int64) error {
	event := Event{
		Type:      eventType,
		ProductID: productID,
		Timestamp: time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{Value: value})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
