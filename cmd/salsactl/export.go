package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/salsa-ratings-service/internal/domain"
	"github.com/couchcryptid/salsa-ratings-service/internal/render"
)

func newExportCmd(src *sourceFlags) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the table and map pages as static files",
		Long: `Write index.html, map.html, restaurants.json, and map.geojson to a directory.

Examples:
  salsactl export --out site
  salsactl export --file ratings.csv --out site`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := src.load(cmd)
			if err != nil {
				return err
			}
			files, err := exportSite(outDir, snap)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "site", "output directory")
	return cmd
}

// exportSite renders every page of the snapshot into dir and returns the
// written paths.
func exportSite(dir string, snap domain.Snapshot) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var written []string
	write := func(name string, fn func(*os.File) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path) //nolint:gosec // path is under the chosen output directory
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := fn(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	view := domain.BuildMapView(snap.Restaurants)
	steps := []struct {
		name string
		fn   func(*os.File) error
	}{
		{"index.html", func(f *os.File) error {
			return render.WriteTable(f, render.NewTablePage(snap, render.TableQuery{}, "index.html", "map.html"))
		}},
		{"map.html", func(f *os.File) error {
			return render.WriteMap(f, render.NewMapPage(snap, "index.html"))
		}},
		{"restaurants.json", func(f *os.File) error { return writeJSON(f, snap) }},
		{"map.geojson", func(f *os.File) error { return writeJSON(f, view.GeoJSON()) }},
	}
	for _, s := range steps {
		if err := write(s.name, s.fn); err != nil {
			return written, err
		}
	}
	return written, nil
}

func writeJSON(f *os.File, v any) error {
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
