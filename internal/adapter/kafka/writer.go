package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/salsa-ratings-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// RatingEvent is the message value published for each restaurant in a snapshot.
type RatingEvent struct {
	domain.Restaurant
	HeatLevel  string    `json:"heat"`
	Stars      string    `json:"stars"`
	Source     string    `json:"source"`
	LoadedAt   time.Time `json:"loaded_at"`
	SnapshotID string    `json:"snapshot_id"`
}

// Writer produces rating events to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the given brokers and topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one message per restaurant in a single WriteMessages call.
// Messages are keyed by restaurant ID so updates for a restaurant stay ordered.
func (w *Writer) Publish(ctx context.Context, snap domain.Snapshot) error {
	if len(snap.Restaurants) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snap.Restaurants))
	for i, r := range snap.Restaurants {
		msg, err := serializeToMessage(r, snap)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish rating events: %w", err)
	}
	w.logger.Debug("rating events published", "count", len(msgs), "snapshot", snap.Fingerprint)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a restaurant rating into a Kafka message.
func serializeToMessage(r domain.Restaurant, snap domain.Snapshot) (kafkago.Message, error) {
	event := RatingEvent{
		Restaurant: r,
		HeatLevel:  r.Heat().String(),
		Stars:      domain.Stars(r.Rating),
		Source:     snap.Source,
		LoadedAt:   snap.LoadedAt,
		SnapshotID: snap.Fingerprint,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize rating event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(r.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(snap.Source)},
			{Key: "loaded_at", Value: []byte(snap.LoadedAt.Format(time.RFC3339))},
		},
	}, nil
}
