package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/salsa-ratings-service/internal/domain"
)

func newMapCmd(src *sourceFlags) *cobra.Command {
	var view bool

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Print map markers as GeoJSON",
		Long: `Print the restaurants that have coordinates as a GeoJSON FeatureCollection.
With --view, print the marker list with its bounds or default center instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := src.load(cmd)
			if err != nil {
				return err
			}
			mapView := domain.BuildMapView(snap.Restaurants)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if view {
				return enc.Encode(mapView)
			}
			return enc.Encode(mapView.GeoJSON())
		},
	}

	cmd.Flags().BoolVar(&view, "view", false, "print markers with bounds instead of GeoJSON")
	return cmd
}
