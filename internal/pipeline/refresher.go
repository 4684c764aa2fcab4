package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/salsa-ratings-service/internal/domain"
	"github.com/couchcryptid/salsa-ratings-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Fetcher downloads the raw sheet CSV.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// SnapshotStore persists the last sheet body that parsed cleanly.
type SnapshotStore interface {
	Save(ctx context.Context, body string) error
	Load(ctx context.Context) (string, error)
}

// Publisher announces a new snapshot downstream.
type Publisher interface {
	Publish(ctx context.Context, snap domain.Snapshot) error
}

// Options configures the optional stages of a Refresher. Nil stages are skipped.
type Options struct {
	Store       SnapshotStore
	Publisher   Publisher
	Geocoder    domain.Geocoder
	Coordinates *domain.CoordinateTable
	Interval    time.Duration
	Clock       clockwork.Clock
}

// Refresher runs the fetch → parse → resolve pipeline and holds the current snapshot.
type Refresher struct {
	fetcher   Fetcher
	store     SnapshotStore
	publisher Publisher
	geocoder  domain.Geocoder
	coords    *domain.CoordinateTable
	interval  time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	current atomic.Pointer[domain.Snapshot]
	ready   atomic.Bool

	// mu serializes refreshes and guards lastPublished.
	mu            sync.Mutex
	lastPublished string
}

// New creates a Refresher. Coordinates default to the built-in table, the
// interval to five minutes, and the clock to real time.
func New(fetcher Fetcher, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	if opts.Coordinates == nil {
		opts.Coordinates = domain.DefaultCoordinates()
	}
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Refresher{
		fetcher:   fetcher,
		store:     opts.Store,
		publisher: opts.Publisher,
		geocoder:  opts.Geocoder,
		coords:    opts.Coordinates,
		interval:  opts.Interval,
		clock:     opts.Clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a snapshot has been built, or an error
// describing why the service is not yet ready.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no restaurant snapshot loaded yet")
	}
	return nil
}

// Current returns the latest snapshot, or false before the first refresh.
func (r *Refresher) Current() (domain.Snapshot, bool) {
	snap := r.current.Load()
	if snap == nil {
		return domain.Snapshot{}, false
	}
	return *snap, true
}

// Run refreshes immediately and then on every interval until the context is
// cancelled. A degraded refresh is retried with exponential backoff, capped
// at the interval.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started", "interval", r.interval)
	r.metrics.RefresherRunning.Set(1)
	defer r.metrics.RefresherRunning.Set(0)

	backoff := initialBackoff
	for {
		_, err := r.Refresh(ctx)
		if ctx.Err() != nil {
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		}

		wait := r.interval
		if err != nil {
			wait = min(backoff, r.interval)
			backoff = nextBackoff(backoff)
		} else {
			backoff = initialBackoff
		}

		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		case <-r.clock.After(wait):
		}
	}
}

// Refresh builds a new snapshot. The sheet is preferred; when it cannot be
// loaded the previous real snapshot is kept, then the stored last-known-good
// body is tried, then the static fallback list. The returned error reports
// why the sheet was not used, even though a snapshot is still available.
func (r *Refresher) Refresh(ctx context.Context) (domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := r.clock.Now()
	restaurants, sheetErr := r.loadSheet(ctx)
	if sheetErr != nil && ctx.Err() != nil {
		return domain.Snapshot{}, ctx.Err()
	}

	var source string
	switch {
	case sheetErr == nil:
		source = domain.SourceSheet
	default:
		if prev, ok := r.Current(); ok && prev.Source != domain.SourceFallback {
			r.logger.Warn("failed to load sheet, keeping previous snapshot",
				"error", sheetErr, "source", prev.Source, "loaded_at", prev.LoadedAt)
			return prev, sheetErr
		}
		restaurants, source = r.degrade(ctx, sheetErr)
	}

	restaurants = domain.ResolveAll(ctx, restaurants, r.coords, r.geocoder, r.logger)
	snap := domain.NewSnapshot(restaurants, source)
	r.current.Store(&snap)
	r.ready.Store(true)

	r.metrics.SnapshotLoads.WithLabelValues(source).Inc()
	r.metrics.RestaurantsLoaded.Set(float64(len(restaurants)))
	r.metrics.RestaurantsMapped.Set(float64(countMapped(restaurants)))
	r.metrics.RefreshDuration.Observe(r.clock.Since(start).Seconds())

	r.logger.Info("snapshot loaded",
		"source", source,
		"restaurants", len(restaurants),
		"fingerprint", snap.Fingerprint,
	)

	r.publish(ctx, snap)
	return snap, sheetErr
}

// loadSheet fetches and parses the sheet, saving good bodies to the store.
func (r *Refresher) loadSheet(ctx context.Context) ([]domain.Restaurant, error) {
	body, err := r.fetcher.Fetch(ctx)
	if err != nil {
		r.metrics.SheetFetches.WithLabelValues("error").Inc()
		return nil, err
	}

	restaurants, err := domain.RestaurantsFromCSV(body)
	if err != nil {
		outcome := "error"
		if errors.Is(err, domain.ErrEmptySheet) {
			outcome = "empty"
		}
		r.metrics.SheetFetches.WithLabelValues(outcome).Inc()
		return nil, err
	}
	r.metrics.SheetFetches.WithLabelValues("success").Inc()

	if r.store != nil {
		if err := r.store.Save(ctx, body); err != nil {
			r.logger.Warn("save last-known-good sheet failed", "error", err)
		}
	}
	return restaurants, nil
}

// degrade picks the best non-sheet data available.
func (r *Refresher) degrade(ctx context.Context, sheetErr error) ([]domain.Restaurant, string) {
	if r.store != nil {
		body, err := r.store.Load(ctx)
		if err == nil {
			if restaurants, err := domain.RestaurantsFromCSV(body); err == nil {
				r.logger.Warn("failed to load sheet, using last-known-good copy", "error", sheetErr)
				return restaurants, domain.SourceCache
			}
		} else {
			r.logger.Debug("no last-known-good sheet available", "error", err)
		}
	}
	r.logger.Warn("failed to load sheet, using fallback data", "error", sheetErr)
	return domain.FallbackRestaurants(), domain.SourceFallback
}

// publish announces sheet snapshots whose content changed since the last publish.
func (r *Refresher) publish(ctx context.Context, snap domain.Snapshot) {
	if r.publisher == nil || snap.Source != domain.SourceSheet || snap.Fingerprint == r.lastPublished {
		return
	}
	if err := r.publisher.Publish(ctx, snap); err != nil {
		r.metrics.PublishErrors.Inc()
		r.logger.Error("publish snapshot failed", "error", err, "fingerprint", snap.Fingerprint)
		return
	}
	r.lastPublished = snap.Fingerprint
	r.metrics.RatingsPublished.Add(float64(len(snap.Restaurants)))
}

func countMapped(restaurants []domain.Restaurant) int {
	n := 0
	for _, r := range restaurants {
		if r.Geo != nil {
			n++
		}
	}
	return n
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
