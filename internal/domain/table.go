package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortKey names a sortable table column.
type SortKey string

const (
	SortNone       SortKey = ""
	SortRestaurant SortKey = "restaurant"
	SortLocation   SortKey = "location"
	SortSalsa      SortKey = "salsa"
	SortRating     SortKey = "rating"
)

// SortKeys lists the table columns in display order.
var SortKeys = []SortKey{SortRestaurant, SortLocation, SortSalsa, SortRating}

// ParseSortKey validates a column name. An empty string means unsorted.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if k == SortNone || slices.Contains(SortKeys, k) {
		return k, nil
	}
	return SortNone, fmt.Errorf("unknown sort column %q", s)
}

// Direction is a sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection reads "asc" or "desc"; anything else is ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Toggle gives the direction a second click on the same column produces:
// ascending flips to descending, everything else becomes ascending.
func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// SearchText is the lower-cased visible text of a table row, with stars as
// DisplayStars draws them.
func SearchText(r Restaurant) string {
	return strings.ToLower(strings.Join([]string{
		r.Name,
		r.Location,
		r.Salsa,
		DisplayStars(r.Rating),
		FormatRating(r.Rating),
		r.Description,
	}, " "))
}

// Filter keeps the restaurants whose visible text contains term, ignoring case.
// An empty term keeps everything.
func Filter(restaurants []Restaurant, term string) []Restaurant {
	term = strings.ToLower(term)
	out := make([]Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		if term == "" || strings.Contains(SearchText(r), term) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a copy of restaurants ordered by the given column. Names and
// locations compare as strings, ratings numerically, and salsa by heat order.
// Equal rows keep their relative order.
func Sort(restaurants []Restaurant, key SortKey, dir Direction) []Restaurant {
	out := slices.Clone(restaurants)
	compare := comparator(key)
	if compare == nil {
		return out
	}
	slices.SortStableFunc(out, func(a, b Restaurant) int {
		if dir == Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}

func comparator(key SortKey) func(a, b Restaurant) int {
	switch key {
	case SortRestaurant:
		return func(a, b Restaurant) int { return strings.Compare(a.Name, b.Name) }
	case SortLocation:
		return func(a, b Restaurant) int { return strings.Compare(a.Location, b.Location) }
	case SortRating:
		return func(a, b Restaurant) int { return cmp.Compare(a.Rating, b.Rating) }
	case SortSalsa:
		return func(a, b Restaurant) int { return cmp.Compare(a.Heat().Order(), b.Heat().Order()) }
	default:
		return nil
	}
}
