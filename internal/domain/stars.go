package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ratingPrefixRe matches the leading number of a rating cell, so "4.5/5" and
// "4.5 stars" both read as 4.5.
var ratingPrefixRe = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)`)

const (
	// MaxRating is the top of the star scale.
	MaxRating = 5

	FullStar  = "★"
	HalfStar  = "½"
	EmptyStar = "☆"
)

// StarCounts splits a rating into full, half, and empty stars. The half star
// is shown for a fractional part in [0.25, 0.75); at 0.75 and above the rating
// rounds up to the next full star. Full + half + empty is always MaxRating.
func StarCounts(rating float64) (full int, half bool, empty int) {
	rating = ClampRating(rating)
	whole := math.Floor(rating)
	fraction := rating - whole

	full = int(whole)
	half = fraction >= 0.25 && fraction < 0.75
	if fraction >= 0.75 {
		full++
	}
	empty = MaxRating - full
	if half {
		empty--
	}
	return full, half, empty
}

// Stars renders a rating as a star glyph string, e.g. 4.5 -> "★★★★½".
func Stars(rating float64) string {
	full, half, empty := StarCounts(rating)
	var b strings.Builder
	b.WriteString(strings.Repeat(FullStar, full))
	if half {
		b.WriteString(HalfStar)
	}
	b.WriteString(strings.Repeat(EmptyStar, empty))
	return b.String()
}

// ClampRating bounds a rating to [0, MaxRating]. NaN becomes 0.
func ClampRating(rating float64) float64 {
	switch {
	case math.IsNaN(rating), rating < 0:
		return 0
	case rating > MaxRating:
		return MaxRating
	default:
		return rating
	}
}

// FormatRating renders a rating with one decimal, e.g. 4 -> "4.0". Halves
// round away from zero, so 4.25 -> "4.3".
func FormatRating(rating float64) string {
	return strconv.FormatFloat(math.Round(rating*10)/10, 'f', 1, 64)
}

// DisplayStars is the star text a table row shows: the half star is drawn as
// a styled full glyph, so it reads as FullStar.
func DisplayStars(rating float64) string {
	full, half, empty := StarCounts(rating)
	if half {
		full++
	}
	return strings.Repeat(FullStar, full) + strings.Repeat(EmptyStar, empty)
}

// ParseRating reads the leading number of a rating cell, returning 0 when there is none.
func ParseRating(s string) float64 {
	num := ratingPrefixRe.FindString(strings.TrimSpace(s))
	if num == "" {
		return 0
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
