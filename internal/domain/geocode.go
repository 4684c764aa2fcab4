package domain

import (
	"context"
	"log/slog"
)

// ResolveCoordinates pins a restaurant to the map. The coordinate table is
// consulted first; names it does not know are forward-geocoded when a geocoder
// is configured. Geocoding failures leave the restaurant unmapped with
// GeoSource set accordingly (graceful degradation).
func ResolveCoordinates(ctx context.Context, r Restaurant, table *CoordinateTable, geocoder Geocoder, logger *slog.Logger) Restaurant {
	if table != nil {
		if geo, ok := table.Lookup(r.Name); ok {
			r.Geo = &geo
			r.GeoSource = GeoSourceTable
			return r
		}
	}

	if geocoder == nil || r.Name == "" {
		r.GeoSource = GeoSourceNone
		return r
	}

	result, err := geocoder.ForwardGeocode(ctx, r.Name, r.Location)
	if err != nil {
		logger.Warn("forward geocoding failed",
			"restaurant", r.Name,
			"location", r.Location,
			"error", err,
		)
		r.GeoSource = GeoSourceFailed
		return r
	}
	if result.Lat == 0 && result.Lon == 0 {
		r.GeoSource = GeoSourceNone
		return r
	}
	r.Geo = &Geo{Lat: result.Lat, Lon: result.Lon}
	r.GeoSource = GeoSourceForward
	return r
}

// ResolveAll applies ResolveCoordinates to every restaurant, returning a new slice.
func ResolveAll(ctx context.Context, restaurants []Restaurant, table *CoordinateTable, geocoder Geocoder, logger *slog.Logger) []Restaurant {
	out := make([]Restaurant, len(restaurants))
	for i, r := range restaurants {
		out[i] = ResolveCoordinates(ctx, r, table, geocoder, logger)
	}
	return out
}
