package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMapView(t *testing.T) {
	t.Run("markers with padded bounds", func(t *testing.T) {
		view := BuildMapView([]Restaurant{
			{ID: "a", Name: "A", Salsa: "Hot", Rating: 4.5, Geo: &Geo{Lat: 10, Lon: -20}},
			{ID: "b", Name: "B", Salsa: "", Rating: 3, Geo: &Geo{Lat: 20, Lon: -10}},
			{ID: "c", Name: "C (unmapped)"},
		})

		require.Len(t, view.Markers, 2)
		assert.Nil(t, view.Center)
		require.NotNil(t, view.Bounds)
		assert.InDelta(t, 8.5, view.Bounds.South, 1e-9)
		assert.InDelta(t, 21.5, view.Bounds.North, 1e-9)
		assert.InDelta(t, -21.5, view.Bounds.West, 1e-9)
		assert.InDelta(t, -8.5, view.Bounds.East, 1e-9)

		hot := view.Markers[0]
		assert.Equal(t, "#f44336", hot.Color)
		assert.Equal(t, "hot", hot.HeatClass)
		assert.Equal(t, "★★★★½", hot.Stars)
		assert.Equal(t, "4.5", hot.RatingText)

		unknown := view.Markers[1]
		assert.Equal(t, DefaultHeatColor, unknown.Color)
		assert.Equal(t, "medium", unknown.HeatClass)
	})

	t.Run("no markers falls back to default view", func(t *testing.T) {
		view := BuildMapView([]Restaurant{{Name: "Nowhere"}})
		assert.Empty(t, view.Markers)
		assert.Nil(t, view.Bounds)
		require.NotNil(t, view.Center)
		assert.Equal(t, DefaultCenter, *view.Center)
		assert.Equal(t, DefaultZoom, view.Zoom)
	})
}

func TestMapView_GeoJSON(t *testing.T) {
	view := BuildMapView([]Restaurant{
		{ID: "a", Name: "A", Geo: &Geo{Lat: 33.1, Lon: -94.9}},
	})
	fc := view.GeoJSON()
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "Point", fc.Features[0].Geometry.Type)
	assert.Equal(t, [2]float64{-94.9, 33.1}, fc.Features[0].Geometry.Coordinates)
	assert.Equal(t, "A", fc.Features[0].Properties.Name)
}

func TestNewSnapshot(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })

	a := NewSnapshot(FallbackRestaurants(), SourceFallback)
	b := NewSnapshot(FallbackRestaurants(), SourceFallback)
	assert.Equal(t, now, a.LoadedAt)
	assert.Equal(t, SourceFallback, a.Source)
	assert.NotEmpty(t, a.Fingerprint)
	assert.Equal(t, a.Fingerprint, b.Fingerprint)

	changed := FallbackRestaurants()
	changed[0].Rating = 1
	assert.NotEqual(t, a.Fingerprint, NewSnapshot(changed, SourceSheet).Fingerprint)
}
