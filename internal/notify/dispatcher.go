// Package notify composes mail descriptors and delivers them from the outbox.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"eventplanner-collab/internal/domain"
)

// Dispatcher delivers one descriptor. A nil error means the transport accepted it.
type Dispatcher interface {
	Send(ctx context.Context, n domain.Notification) error
}

// KafkaDispatcher hands mail jobs to the mailer through a Kafka topic.
type KafkaDispatcher struct {
	writer *kafka.Writer
}

func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	return &KafkaDispatcher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

type mailJob struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

func (d *KafkaDispatcher) Send(ctx context.Context, n domain.Notification) error {
	const op = "notify.KafkaDispatcher.Send"

	payload, err := json.Marshal(mailJob{
		ID:      n.ID,
		Kind:    string(n.Kind),
		To:      n.To,
		Subject: n.Subject,
		Body:    n.Body,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.ID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}

// LogDispatcher only logs descriptors. It is used when no mail transport is configured.
type LogDispatcher struct {
	log *slog.Logger
}

func NewLogDispatcher(log *slog.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Send(_ context.Context, n domain.Notification) error {
	d.log.Info("notification skipped (mail transport disabled)",
		slog.String("id", n.ID),
		slog.String("kind", string(n.Kind)),
		slog.Any("to", n.To),
		slog.String("subject", n.Subject),
	)
	return nil
}
