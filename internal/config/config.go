package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultSheetURL is the published CSV export of the ratings spreadsheet.
const DefaultSheetURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vS_tew-CY6ctXwsBS6XRxsjZl3z0GVf9JC1rMKA3oMFFp98O3O4na234teft8kNX0OQnOTpmDPA7Snr/pub?output=csv"

// Config holds all service settings, populated from environment variables.
type Config struct {
	SheetURL        string
	SheetTimeout    time.Duration
	RefreshInterval time.Duration
	CoordinatesFile string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
	MapboxRateLimit float64

	// Last-known-good sheet cache. Disabled when RedisAddr is empty.
	RedisAddr string
	RedisKey  string

	// Rating event publishing. Disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string
}

// RedisEnabled reports whether the last-known-good cache is configured.
func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

// KafkaEnabled reports whether rating events are published.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sheetTimeout, err := parsePositiveDuration("SHEET_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parsePositiveDuration("REFRESH_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	mapboxRateLimit, err := parseMapboxRateLimit()
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		SheetURL:        sharedcfg.EnvOrDefault("SHEET_CSV_URL", DefaultSheetURL),
		SheetTimeout:    sheetTimeout,
		RefreshInterval: refreshInterval,
		CoordinatesFile: os.Getenv("COORDINATES_FILE"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),
		MapboxRateLimit: mapboxRateLimit,

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisKey:  sharedcfg.EnvOrDefault("REDIS_KEY", "salsa-ratings:last-good"),

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "salsa-ratings"),
	}

	if !strings.HasPrefix(cfg.SheetURL, "http://") && !strings.HasPrefix(cfg.SheetURL, "https://") {
		return nil, errors.New("SHEET_CSV_URL must be an http(s) URL")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func parseMapboxRateLimit() (float64, error) {
	s := sharedcfg.EnvOrDefault("MAPBOX_RATE_LIMIT", "5")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, errors.New("invalid MAPBOX_RATE_LIMIT")
	}
	return v, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
