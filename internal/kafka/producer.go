package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventBookingCreated = "booking_created"
	EventWalletTopUp    = "wallet_topped_up"
)

// Event is the payload on both the booking and the notification topics.
type Event struct {
	Type           string    `json:"type"`
	UserID         string    `json:"user_id,omitempty"`
	PNR            string    `json:"pnr,omitempty"`
	FlightID       int64     `json:"flight_id,omitempty"`
	PassengerName  string    `json:"passenger_name,omitempty"`
	PassengerEmail string    `json:"passenger_email,omitempty"`
	Amount         float64   `json:"amount"`
	Balance        float64   `json:"balance,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Producer struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewProducer(brokers []string, log *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		log:    log.With(zap.String("component", "kafka-producer")),
	}
}

// Publish writes payload as JSON. Keys route all events of one booking or
// user to the same partition.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.log.Debug("published", zap.String("topic", topic), zap.String("key", key))
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
