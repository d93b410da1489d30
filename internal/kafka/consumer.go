package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Handler func(ctx context.Context, event Event) error

type Consumer struct {
	reader *kafka.Reader
	log    *zap.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log.With(zap.String("component", "kafka-consumer"), zap.String("topic", topic)),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks until ctx is done or the handler fails. Messages that do
// not decode are logged and skipped.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}
		if err := Dispatch(ctx, msg.Value, handler, c.log); err != nil {
			return err
		}
	}
}

func Dispatch(ctx context.Context, value []byte, handler Handler, log *zap.Logger) error {
	var event Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Warn("skipping undecodable message", zap.Error(err))
		return nil
	}
	return handler(ctx, event)
}
