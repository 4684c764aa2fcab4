package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"
)

// maxBodyBytes caps the size of a sheet export.
const maxBodyBytes = 10 << 20

// ErrBodyTooLarge is returned when a sheet export exceeds the size cap.
var ErrBodyTooLarge = errors.New("sheet body too large")

// Client fetches the published CSV export of the ratings spreadsheet.
// It implements pipeline.Fetcher.
type Client struct {
	url        string
	httpClient *http.Client
	clock      clockwork.Clock
	breaker    *gobreaker.CircuitBreaker
	maxBody    int64
	logger     *slog.Logger
}

// NewClient creates a sheet client. Repeated failures open a circuit breaker
// so an unreachable sheet fails fast until the breaker's timeout elapses.
// A nil clock uses real time.
func NewClient(url string, timeout time.Duration, clock clockwork.Clock, logger *slog.Logger) *Client {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		clock:      clock,
		breaker:    newBreaker(logger),
		maxBody:    maxBodyBytes,
		logger:     logger,
	}
}

func newBreaker(logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sheet",
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// A request cancelled mid-flight counts as a success and resets the streak.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// Fetch downloads the sheet as CSV text. A cache-busting timestamp is added
// to the URL so intermediate caches never serve a stale export. A context
// that is already done returns without touching the breaker.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		return "", err
	}
	return body.(string), nil
}

func (c *Client) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cacheBust(c.url, c.clock.Now()), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sheet request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("sheet fetch: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return "", fmt.Errorf("read sheet body: %w", err)
	}
	if int64(len(data)) > c.maxBody {
		return "", fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, c.maxBody)
	}
	c.logger.Debug("sheet fetched", "bytes", len(data))
	return string(data), nil
}

// cacheBust appends _t=<unix millis> to the URL query.
func cacheBust(url string, now time.Time) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_t=" + strconv.FormatInt(now.UnixMilli(), 10)
}
