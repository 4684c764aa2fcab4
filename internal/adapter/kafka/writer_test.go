package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/salsa-ratings-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	r := domain.Restaurant{
		ID:       "pollo-bueno-mount-pleasant-tx",
		Name:     "Pollo Bueno",
		Location: "Mount Pleasant, TX",
		Salsa:    "Extra Hot",
		Rating:   4.5,
		Geo:      &domain.Geo{Lat: 33.1541, Lon: -94.9741},
	}
	snap := domain.Snapshot{Source: domain.SourceSheet, LoadedAt: now, Fingerprint: "abc123"}

	msg, err := serializeToMessage(r, snap)
	require.NoError(t, err)

	assert.Equal(t, []byte("pollo-bueno-mount-pleasant-tx"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "source", msg.Headers[0].Key)
	assert.Equal(t, []byte("sheet"), msg.Headers[0].Value)
	assert.Equal(t, "loaded_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)

	var event map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "Pollo Bueno", event["restaurant"])
	assert.Equal(t, "extra hot", event["heat"])
	assert.Equal(t, "★★★★½", event["stars"])
	assert.Equal(t, "abc123", event["snapshot_id"])
	assert.Equal(t, 4.5, event["rating"])
}

func TestWriter_PublishEmptySnapshot(t *testing.T) {
	w := NewWriter([]string{"127.0.0.1:1"}, "salsa-ratings", slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	// No restaurants means no broker round trip.
	require.NoError(t, w.Publish(context.Background(), domain.Snapshot{}))
}
