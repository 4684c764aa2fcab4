package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "salsa_ratings"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	SheetFetches      *prometheus.CounterVec // labels: outcome={success,error,empty}
	SnapshotLoads     *prometheus.CounterVec // labels: source={sheet,cache,fallback}
	RefreshDuration   prometheus.Histogram
	RestaurantsLoaded prometheus.Gauge
	RestaurantsMapped prometheus.Gauge
	RefresherRunning  prometheus.Gauge

	// Rating event publishing.
	RatingsPublished prometheus.Counter
	PublishErrors    prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SheetFetches,
		m.SnapshotLoads,
		m.RefreshDuration,
		m.RestaurantsLoaded,
		m.RestaurantsMapped,
		m.RefresherRunning,
		m.RatingsPublished,
		m.PublishErrors,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SheetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sheet_fetches_total",
			Help:      "Sheet CSV fetches by outcome.",
		}, []string{"outcome"}),
		SnapshotLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_loads_total",
			Help:      "Snapshots built, by data source.",
		}, []string{"source"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-parse-resolve cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RestaurantsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "restaurants_loaded",
			Help:      "Restaurants in the current snapshot.",
		}),
		RestaurantsMapped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "restaurants_mapped",
			Help:      "Restaurants in the current snapshot that have coordinates.",
		}),
		RefresherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "refresher_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		RatingsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratings_published_total",
			Help:      "Rating events written to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed rating event publishes.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when geocoding of unknown restaurants is enabled, 0 otherwise.",
		}),
	}
}
