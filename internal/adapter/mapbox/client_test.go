package mapbox

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/salsa-ratings-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken         = "test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string, timeout time.Duration) *Client {
	c := NewClient(testToken, timeout, 1000, testMetrics(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.baseURL = baseURL
	return c
}

func TestClient_ForwardGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "Juan Pablos, Sulphur Springs, TX")
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "poi,address", r.URL.Query().Get("types"))
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))

		resp := response{
			Features: []feature{
				{
					Center:    []float64{-95.6011, 33.1384},
					PlaceName: "Juan Pablos, 1410 S Broadway St, Sulphur Springs, Texas 75482",
					Text:      "Juan Pablos",
					Relevance: 0.92,
				},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	result, err := c.ForwardGeocode(context.Background(), "Juan Pablos", "Sulphur Springs, TX")
	require.NoError(t, err)

	assert.Equal(t, 33.1384, result.Lat)
	assert.Equal(t, -95.6011, result.Lon)
	assert.Equal(t, "Juan Pablos", result.PlaceName)
	assert.Equal(t, 0.92, result.Confidence)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("success")))
}

func TestClient_ForwardGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{Features: []feature{}}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	result, err := c.ForwardGeocode(context.Background(), "Nonexistent Cantina", "")
	require.NoError(t, err)
	assert.Zero(t, result.Lat)
	assert.Empty(t, result.FormattedAddress)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("empty")))
}

func TestClient_ForwardGeocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.ForwardGeocode(context.Background(), "Juan Pablos", "Sulphur Springs, TX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("error")))
}

func TestClient_ForwardGeocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 50*time.Millisecond)
	_, err := c.ForwardGeocode(context.Background(), "Juan Pablos", "Sulphur Springs, TX")
	require.Error(t, err)
}

func TestClient_ForwardGeocode_RateLimitHonorsContext(t *testing.T) {
	c := NewClient(testToken, time.Second, 0.001, testMetrics(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.baseURL = "http://127.0.0.1:0"
	// Drain the single burst token.
	require.True(t, c.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.ForwardGeocode(ctx, "Juan Pablos", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}
