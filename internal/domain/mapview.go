package domain

// Marker style shared by every map pin.
const (
	MarkerRadius      = 10
	MarkerStroke      = "#fff"
	MarkerWeight      = 2
	MarkerOpacity     = 1.0
	MarkerFillOpacity = 0.85

	// BoundsPadding extends the marker bounds on every side, as a fraction of their size.
	BoundsPadding = 0.15
	DefaultZoom   = 14
	MaxZoom       = 19
)

// DefaultCenter frames Mount Pleasant, TX when no restaurant can be placed.
var DefaultCenter = Geo{Lat: 33.157, Lon: -94.968}

// Marker is one map pin with its popup content.
type Marker struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Salsa       string  `json:"salsa"`
	HeatClass   string  `json:"heat_class"`
	Color       string  `json:"color"`
	Rating      float64 `json:"rating"`
	RatingText  string  `json:"rating_text"`
	Stars       string  `json:"stars"`
	Description string  `json:"description,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Bounds is a south-west / north-east box.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Pad grows the box by ratio of its height and width on each side.
func (b Bounds) Pad(ratio float64) Bounds {
	dLat := (b.North - b.South) * ratio
	dLon := (b.East - b.West) * ratio
	return Bounds{
		South: b.South - dLat,
		West:  b.West - dLon,
		North: b.North + dLat,
		East:  b.East + dLon,
	}
}

// MapView is what the map page draws: the markers and how to frame them.
// Bounds is set when there is at least one marker; otherwise Center and Zoom are.
type MapView struct {
	Markers []Marker `json:"markers"`
	Bounds  *Bounds  `json:"bounds,omitempty"`
	Center  *Geo     `json:"center,omitempty"`
	Zoom    int      `json:"zoom,omitempty"`
}

// NewMarker builds a pin for a restaurant that has coordinates.
func NewMarker(r Restaurant) (Marker, bool) {
	if r.Geo == nil {
		return Marker{}, false
	}
	heat := r.Heat()
	return Marker{
		ID:          r.ID,
		Name:        r.Name,
		Location:    r.Location,
		Salsa:       r.Salsa,
		HeatClass:   heat.CSSClass(),
		Color:       heat.Color(),
		Rating:      r.Rating,
		RatingText:  FormatRating(r.Rating),
		Stars:       Stars(r.Rating),
		Description: r.Description,
		Lat:         r.Geo.Lat,
		Lon:         r.Geo.Lon,
	}, true
}

// BuildMapView places every restaurant that has coordinates and frames them.
// Restaurants without coordinates are skipped.
func BuildMapView(restaurants []Restaurant) MapView {
	view := MapView{Markers: make([]Marker, 0, len(restaurants))}
	for _, r := range restaurants {
		if m, ok := NewMarker(r); ok {
			view.Markers = append(view.Markers, m)
		}
	}

	if len(view.Markers) == 0 {
		center := DefaultCenter
		view.Center = &center
		view.Zoom = DefaultZoom
		return view
	}

	first := view.Markers[0]
	b := Bounds{South: first.Lat, North: first.Lat, West: first.Lon, East: first.Lon}
	for _, m := range view.Markers[1:] {
		b.South = min(b.South, m.Lat)
		b.North = max(b.North, m.Lat)
		b.West = min(b.West, m.Lon)
		b.East = max(b.East, m.Lon)
	}
	padded := b.Pad(BoundsPadding)
	view.Bounds = &padded
	return view
}

// FeatureCollection is a GeoJSON feature collection of map pins.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a GeoJSON point feature.
type Feature struct {
	Type       string   `json:"type"`
	Geometry   Geometry `json:"geometry"`
	Properties Marker   `json:"properties"`
}

// Geometry is a GeoJSON point; coordinates are [lon, lat].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// GeoJSON renders the markers as a FeatureCollection.
func (v MapView) GeoJSON() FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(v.Markers))}
	for _, m := range v.Markers {
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "Point", Coordinates: [2]float64{m.Lon, m.Lat}},
			Properties: m,
		})
	}
	return fc
}
