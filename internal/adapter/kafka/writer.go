package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/qsolog/internal/config"
	"github.com/couchcryptid/qsolog/internal/domain"
	"github.com/couchcryptid/qsolog/internal/observability"
)

const (
	maxAttempts    = 5
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes merged QSOs to a Kafka topic, one message per contact.
type Writer struct {
	writer  messageWriter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured topic. metrics may be nil.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes qsos and writes them in a single batch, retrying with
// exponential backoff until the batch is accepted, attempts run out, or ctx
// is cancelled.
func (w *Writer) Publish(ctx context.Context, qsos []domain.QSO) error {
	if len(qsos) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(qsos))
	for i := range qsos {
		msg, err := serializeToMessage(qsos[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}

	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = w.writer.WriteMessages(ctx, msgs...); err == nil {
			if w.metrics != nil {
				w.metrics.MessagesProduced.Add(float64(len(msgs)))
			}
			w.logger.Info("published qsos", "count", len(msgs))
			return nil
		}
		if ctx.Err() != nil {
			break
		}
		w.logger.Warn("publish failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
		if attempt == maxAttempts || !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return fmt.Errorf("publish %d qsos: %w", len(msgs), err)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// messageKey identifies a contact across republishes: call, band and start.
func messageKey(q domain.QSO) string {
	return fmt.Sprintf("%s|%d|%s", q.Call(), q.Band(), q.Start().Format(time.RFC3339))
}

// serializeToMessage marshals a QSO into a Kafka message.
func serializeToMessage(q domain.QSO) (kafkago.Message, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize qso: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(messageKey(q)),
		Value: data,
		Time:  q.Start(),
		Headers: []kafkago.Header{
			{Key: "call", Value: []byte(q.Call())},
			{Key: "band", Value: []byte(fmt.Sprintf("%dm", q.Band()))},
		},
	}, nil
}
