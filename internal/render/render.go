// Package render turns snapshots into the HTML table and map pages.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/salsa-ratings-service/internal/domain"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"starsHTML": StarsHTML,
}).ParseFS(templateFS, "templates/*.html.tmpl"))

// Sort icons shown in table headers.
const (
	IconUnsorted = "↕"
	IconAsc      = "↑"
	IconDesc     = "↓"
)

// TableQuery is the search and sort state of the table view.
type TableQuery struct {
	Search string
	Sort   domain.SortKey
	Dir    domain.Direction
}

// Apply filters and sorts restaurants for display.
func (q TableQuery) Apply(restaurants []domain.Restaurant) []domain.Restaurant {
	return domain.Sort(domain.Filter(restaurants, q.Search), q.Sort, q.Dir)
}

// TableRow is one rendered table line.
type TableRow struct {
	ID          string  `json:"id"`
	Name        string  `json:"restaurant"`
	Location    string  `json:"location"`
	Salsa       string  `json:"salsa"`
	HeatClass   string  `json:"heat_class"`
	Rating      float64 `json:"rating"`
	RatingText  string  `json:"rating_text"`
	Stars       string  `json:"stars"`
	Description string  `json:"description,omitempty"`
}

// TableRows converts restaurants to display rows, keeping order.
func TableRows(restaurants []domain.Restaurant) []TableRow {
	rows := make([]TableRow, len(restaurants))
	for i, r := range restaurants {
		rows[i] = TableRow{
			ID:          r.ID,
			Name:        r.Name,
			Location:    r.Location,
			Salsa:       r.Salsa,
			HeatClass:   r.Heat().CSSClass(),
			Rating:      r.Rating,
			RatingText:  domain.FormatRating(r.Rating),
			Stars:       domain.Stars(r.Rating),
			Description: r.Description,
		}
	}
	return rows
}

// Column is a sortable table header.
type Column struct {
	Key   domain.SortKey
	Title string
	Icon  string
	Href  string
}

var columnTitles = map[domain.SortKey]string{
	domain.SortRestaurant: "Restaurant",
	domain.SortLocation:   "Location",
	domain.SortSalsa:      "Salsa",
	domain.SortRating:     "Rating",
}

// Columns builds the header links. Clicking the active ascending column
// sorts it descending; any other click sorts ascending.
func (q TableQuery) Columns(basePath string) []Column {
	cols := make([]Column, 0, len(domain.SortKeys))
	for _, key := range domain.SortKeys {
		icon := IconUnsorted
		next := domain.Asc
		if key == q.Sort {
			icon = IconAsc
			if q.Dir == domain.Desc {
				icon = IconDesc
			}
			next = q.Dir.Toggle()
		}
		params := url.Values{"sort": {string(key)}, "dir": {string(next)}}
		if q.Search != "" {
			params.Set("q", q.Search)
		}
		cols = append(cols, Column{
			Key:   key,
			Title: columnTitles[key],
			Icon:  icon,
			Href:  basePath + "?" + params.Encode(),
		})
	}
	return cols
}

// StarsHTML renders a rating for the table, drawing the half star as a
// styled full glyph.
func StarsHTML(rating float64) template.HTML {
	full, half, empty := domain.StarCounts(rating)
	var b strings.Builder
	b.WriteString(strings.Repeat(domain.FullStar, full))
	if half {
		b.WriteString(`<span class="star-half">` + domain.FullStar + `</span>`)
	}
	b.WriteString(strings.Repeat(domain.EmptyStar, empty))
	return template.HTML(b.String()) //nolint:gosec // only fixed glyphs and markup
}

// TablePage is the data for the table template.
type TablePage struct {
	Title    string
	Query    TableQuery
	Columns  []Column
	Rows     []TableRow
	Total    int
	Source   string
	LoadedAt time.Time
	MapHref  string
}

// NewTablePage applies the query to a snapshot. basePath is the URL the
// header links point back to.
func NewTablePage(snap domain.Snapshot, q TableQuery, basePath, mapHref string) TablePage {
	return TablePage{
		Title:    "Salsa Ratings",
		Query:    q,
		Columns:  q.Columns(basePath),
		Rows:     TableRows(q.Apply(snap.Restaurants)),
		Total:    len(snap.Restaurants),
		Source:   snap.Source,
		LoadedAt: snap.LoadedAt,
		MapHref:  mapHref,
	}
}

// MarkerStyle mirrors the Leaflet circleMarker options.
type MarkerStyle struct {
	Radius      int     `json:"radius"`
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fillOpacity"`
}

// MapPage is the data for the map template.
type MapPage struct {
	Title     string
	View      domain.MapView
	Style     MarkerStyle
	MaxZoom   int
	Unmapped  int
	Source    string
	LoadedAt  time.Time
	TableHref string
}

// NewMapPage builds the map view of a snapshot.
func NewMapPage(snap domain.Snapshot, tableHref string) MapPage {
	view := domain.BuildMapView(snap.Restaurants)
	return MapPage{
		Title: "Salsa Map",
		View:  view,
		Style: MarkerStyle{
			Radius:      domain.MarkerRadius,
			Color:       domain.MarkerStroke,
			Weight:      domain.MarkerWeight,
			Opacity:     domain.MarkerOpacity,
			FillOpacity: domain.MarkerFillOpacity,
		},
		MaxZoom:   domain.MaxZoom,
		Unmapped:  len(snap.Restaurants) - len(view.Markers),
		Source:    snap.Source,
		LoadedAt:  snap.LoadedAt,
		TableHref: tableHref,
	}
}

// WriteTable renders the table page.
func WriteTable(w io.Writer, page TablePage) error {
	if err := templates.ExecuteTemplate(w, "table.html.tmpl", page); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// WriteMap renders the map page.
func WriteMap(w io.Writer, page MapPage) error {
	if err := templates.ExecuteTemplate(w, "map.html.tmpl", page); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return nil
}
