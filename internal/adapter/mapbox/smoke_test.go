//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func TestSmoke_ForwardGeocode(t *testing.T) {
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	c := NewClient(token, 10*time.Second, 1, testMetrics(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	result, err := c.ForwardGeocode(context.Background(), "Juan Pablos", "Sulphur Springs, TX")
	require.NoError(t, err)

	assert.InDelta(t, 33.14, result.Lat, 0.2, "lat should be near Sulphur Springs")
	assert.InDelta(t, -95.60, result.Lon, 0.2, "lon should be near Sulphur Springs")
	assert.NotEmpty(t, result.FormattedAddress)
}
