package domain

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CoordinateEntry pins a restaurant name to a map position.
type CoordinateEntry struct {
	Name    string  `yaml:"name"`
	Lat     float64 `yaml:"lat"`
	Lon     float64 `yaml:"lon"`
	Address string  `yaml:"address,omitempty"`
}

// CoordinateTable is an ordered name-to-coordinate lookup. Order matters for
// partial matches: the first entry that matches wins.
type CoordinateTable struct {
	entries []CoordinateEntry
}

// defaultCoordinates were geocoded from the restaurants' street addresses.
var defaultCoordinates = []CoordinateEntry{
	{Name: "Jalapeno Tree", Lat: 33.1672, Lon: -94.9981, Address: "2506 W Ferguson Rd"},
	{Name: "Restaurante Mexico", Lat: 33.1541, Lon: -94.9740, Address: "301 W Ferguson Rd"},
	{Name: "Tierra Y Mar Grill", Lat: 33.1666, Lon: -94.9673, Address: "305 E 12th St"},
	{Name: "Jorge's Mexican Restaurant", Lat: 33.1694, Lon: -94.9702, Address: "1406 N Jefferson Ave"},
	{Name: "Gabby's Tacos", Lat: 33.1600, Lon: -94.9684, Address: "502 N Jefferson Ave"},
	{Name: "Lala's Mexican Food", Lat: 33.2188, Lon: -94.8430, Address: "1649 Farm Road 1001"},
	{Name: "Pupuseria El Tamarindo", Lat: 33.1498, Lon: -94.9685, Address: "811 S Jefferson Ave"},
	{Name: "Pollo Bueno", Lat: 33.1541, Lon: -94.9741, Address: "315 W Ferguson Rd"},
	{Name: "Two Senoritas", Lat: 33.1713, Lon: -95.0015, Address: "2601 W Ferguson Rd"},
	{Name: "Taqueria Monterrey", Lat: 33.1664, Lon: -94.9742, Address: "721 W 12th St"},
	{Name: "Don Juan (on the Square)", Lat: 32.3511, Lon: -95.2850, Address: "113 E Erwin St, Tyler"},
}

// DefaultCoordinates returns the built-in coordinate table.
func DefaultCoordinates() *CoordinateTable {
	return NewCoordinateTable(defaultCoordinates)
}

// NewCoordinateTable builds a table from entries, keeping their order.
func NewCoordinateTable(entries []CoordinateEntry) *CoordinateTable {
	return &CoordinateTable{entries: append([]CoordinateEntry(nil), entries...)}
}

// Len reports the number of entries.
func (t *CoordinateTable) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the table in lookup order.
func (t *CoordinateTable) Entries() []CoordinateEntry {
	return append([]CoordinateEntry(nil), t.entries...)
}

// Lookup finds coordinates for a restaurant name: an exact match first, then
// the first entry whose name contains, or is contained in, the given name
// (case-insensitive). An empty name never matches.
func (t *CoordinateTable) Lookup(name string) (Geo, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Geo{}, false
	}
	for _, e := range t.entries {
		if e.Name == name {
			return Geo{Lat: e.Lat, Lon: e.Lon}, true
		}
	}
	lower := strings.ToLower(name)
	for _, e := range t.entries {
		key := strings.ToLower(e.Name)
		if strings.Contains(lower, key) || strings.Contains(key, lower) {
			return Geo{Lat: e.Lat, Lon: e.Lon}, true
		}
	}
	return Geo{}, false
}

// Merge returns a new table where overrides replace entries with the same
// name and the rest are appended in order.
func (t *CoordinateTable) Merge(overrides []CoordinateEntry) *CoordinateTable {
	merged := t.Entries()
	index := make(map[string]int, len(merged))
	for i, e := range merged {
		index[e.Name] = i
	}
	for _, o := range overrides {
		if i, ok := index[o.Name]; ok {
			merged[i] = o
			continue
		}
		index[o.Name] = len(merged)
		merged = append(merged, o)
	}
	return &CoordinateTable{entries: merged}
}

type coordinatesFile struct {
	Restaurants []CoordinateEntry `yaml:"restaurants"`
}

// LoadCoordinates reads coordinate overrides from a YAML file of the form:
//
//	restaurants:
//	  - name: Juan Pablos
//	    lat: 33.1384
//	    lon: -95.6011
//	    address: 1410 S Broadway St
func LoadCoordinates(path string) ([]CoordinateEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read coordinates file: %w", err)
	}
	return ParseCoordinates(data)
}

// ParseCoordinates decodes the YAML coordinate override format.
func ParseCoordinates(data []byte) ([]CoordinateEntry, error) {
	var f coordinatesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode coordinates: %w", err)
	}
	for i, e := range f.Restaurants {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("coordinates entry %d: name is required", i)
		}
		if e.Lat < -90 || e.Lat > 90 || e.Lon < -180 || e.Lon > 180 {
			return nil, fmt.Errorf("coordinates entry %q: lat/lon out of range", e.Name)
		}
	}
	return f.Restaurants, nil
}
