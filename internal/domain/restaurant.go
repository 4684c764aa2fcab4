package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
	"unicode"
)

// Snapshot sources.
const (
	SourceSheet    = "sheet"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// Geo sources, recorded on each restaurant after coordinate resolution.
const (
	GeoSourceTable   = "table"
	GeoSourceForward = "forward"
	GeoSourceFailed  = "failed"
	GeoSourceNone    = "none"
)

// Row is one CSV data row keyed by lower-cased header name.
type Row map[string]string

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Restaurant is a single rated restaurant.
type Restaurant struct {
	ID          string  `json:"id"`
	Name        string  `json:"restaurant"`
	Location    string  `json:"location"`
	Salsa       string  `json:"salsa"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description,omitempty"`

	Geo       *Geo   `json:"geo,omitempty"`
	GeoSource string `json:"geo_source,omitempty"`
}

// Heat returns the parsed heat level of the restaurant's salsa label.
func (r Restaurant) Heat() HeatLevel {
	return ParseHeat(r.Salsa)
}

// Snapshot is the set of restaurants produced by one load of the sheet.
type Snapshot struct {
	Restaurants []Restaurant `json:"restaurants"`
	Source      string       `json:"source"`
	LoadedAt    time.Time    `json:"loaded_at"`
	Fingerprint string       `json:"fingerprint"`
}

// NewSnapshot stamps restaurants with the current time and a content fingerprint.
func NewSnapshot(restaurants []Restaurant, source string) Snapshot {
	return Snapshot{
		Restaurants: restaurants,
		Source:      source,
		LoadedAt:    clock.Now(),
		Fingerprint: fingerprint(restaurants),
	}
}

// fingerprint hashes the restaurant list so unchanged reloads can be detected.
func fingerprint(restaurants []Restaurant) string {
	data, err := json.Marshal(restaurants)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// restaurantID derives a stable slug from name and location,
// e.g. "Don Juan (on the Square)", "Tyler, TX" -> "don-juan-on-the-square-tyler-tx".
func restaurantID(name, location string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name + " " + location) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
