// Command salsactl inspects the salsa ratings sheet from the terminal: it
// prints the table and map data, renders star ratings, validates a sheet,
// and exports the static pages.
//
// Usage:
//
//	salsactl table --sort rating --dir desc
//	salsactl map --file ratings.csv
//	salsactl stars 4.5
//	salsactl validate --file ratings.csv
//	salsactl export --out site/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/salsa-ratings-service/internal/adapter/sheet"
	"github.com/couchcryptid/salsa-ratings-service/internal/config"
	"github.com/couchcryptid/salsa-ratings-service/internal/domain"
	"github.com/couchcryptid/salsa-ratings-service/internal/observability"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// sourceFlags selects where restaurants are read from.
type sourceFlags struct {
	url         string
	file        string
	timeout     time.Duration
	coordinates string
	strict      bool
	logLevel    string
}

func newRootCmd() *cobra.Command {
	src := &sourceFlags{}

	root := &cobra.Command{
		Use:           "salsactl",
		Short:         "Inspect restaurant salsa ratings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&src.url, "url", config.DefaultSheetURL, "published sheet CSV URL")
	flags.StringVar(&src.file, "file", "", "read a local CSV file instead of the sheet URL")
	flags.DurationVar(&src.timeout, "timeout", 10*time.Second, "sheet fetch timeout")
	flags.StringVar(&src.coordinates, "coordinates", "", "YAML file of coordinate overrides")
	flags.BoolVar(&src.strict, "strict", false, "fail instead of using the fallback list")
	flags.StringVar(&src.logLevel, "log-level", "warn", "log level for diagnostics on stderr")

	root.AddCommand(
		newTableCmd(src),
		newMapCmd(src),
		newStarsCmd(),
		newValidateCmd(src),
		newExportCmd(src),
	)
	return root
}

func (s *sourceFlags) logger(w io.Writer) *slog.Logger {
	return observability.NewLoggerTo(w, s.logLevel, "text")
}

// readCSV returns the raw sheet text from --file or --url.
func (s *sourceFlags) readCSV(ctx context.Context, logger *slog.Logger) (string, error) {
	if s.file != "" {
		data, err := os.ReadFile(s.file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", s.file, err)
		}
		return string(data), nil
	}
	return sheet.NewClient(s.url, s.timeout, clockwork.NewRealClock(), logger).Fetch(ctx)
}

func (s *sourceFlags) coordinateTable() (*domain.CoordinateTable, error) {
	table := domain.DefaultCoordinates()
	if s.coordinates == "" {
		return table, nil
	}
	overrides, err := domain.LoadCoordinates(s.coordinates)
	if err != nil {
		return nil, err
	}
	return table.Merge(overrides), nil
}

// load reads restaurants and resolves their coordinates. Unless --strict is
// set, a sheet that cannot be read or parsed is replaced by the fallback list.
func (s *sourceFlags) load(cmd *cobra.Command) (domain.Snapshot, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := s.logger(cmd.ErrOrStderr())

	coords, err := s.coordinateTable()
	if err != nil {
		return domain.Snapshot{}, err
	}

	source := domain.SourceSheet
	restaurants, err := s.parse(ctx, logger)
	if err != nil {
		if s.strict {
			return domain.Snapshot{}, err
		}
		logger.Warn("using fallback restaurants", "error", err)
		restaurants = domain.FallbackRestaurants()
		source = domain.SourceFallback
	}

	restaurants = domain.ResolveAll(ctx, restaurants, coords, nil, logger)
	return domain.NewSnapshot(restaurants, source), nil
}

func (s *sourceFlags) parse(ctx context.Context, logger *slog.Logger) ([]domain.Restaurant, error) {
	text, err := s.readCSV(ctx, logger)
	if err != nil {
		return nil, err
	}
	restaurants, err := domain.RestaurantsFromCSV(text)
	if err != nil {
		return nil, err
	}
	return restaurants, nil
}

var errValidationFailed = errors.New("validation failed")
