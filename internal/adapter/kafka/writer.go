package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/weacodi-service/internal/config"
	"github.com/couchcryptid/weacodi-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces derived series to the series topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured series topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes multiple series messages in a single
// WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, msgs []domain.SeriesMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]kafkago.Message, len(msgs))
	for i := range msgs {
		msg, err := serializeToMessage(msgs[i])
		if err != nil {
			return err
		}
		out[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, out...); err != nil {
		return fmt.Errorf("write %d series to %s: %w", len(out), w.writer.Topic, err)
	}
	w.logger.Debug("series batch written", "topic", w.writer.Topic, "count", len(out))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a SeriesMessage into a Kafka message keyed by
// the query's cache key.
func serializeToMessage(msg domain.SeriesMessage) (kafkago.Message, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize series %s: %w", msg.Key, err)
	}
	return kafkago.Message{
		Key:   []byte(msg.Key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "units", Value: []byte(msg.Query.Units)},
			{Key: "window_days", Value: []byte(strconv.Itoa(msg.Query.WindowDays))},
		},
	}, nil
}
