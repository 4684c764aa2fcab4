package domain

import "strings"

// HeatLevel is a salsa spiciness category. The zero value is unknown.
type HeatLevel int

const (
	HeatUnknown HeatLevel = iota
	HeatMild
	HeatMedium
	HeatHot
	HeatExtraHot
)

// DefaultHeatColor is the marker color for unknown heat labels.
const DefaultHeatColor = "#ff9800"

var heatColors = map[HeatLevel]string{
	HeatMild:     "#4caf50",
	HeatMedium:   "#ff9800",
	HeatHot:      "#f44336",
	HeatExtraHot: "#9c27b0",
}

// ParseHeat maps a heat label to its level, ignoring case and surrounding space.
func ParseHeat(label string) HeatLevel {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "mild":
		return HeatMild
	case "medium":
		return HeatMedium
	case "hot":
		return HeatHot
	case "extra hot":
		return HeatExtraHot
	default:
		return HeatUnknown
	}
}

// Order is the table sort rank: mild 1 through extra hot 4, unknown 0.
func (h HeatLevel) Order() int {
	return int(h)
}

// Color is the map marker fill color.
func (h HeatLevel) Color() string {
	if c, ok := heatColors[h]; ok {
		return c
	}
	return DefaultHeatColor
}

// CSSClass is the badge class used by the table and popups. Unknown renders as medium.
func (h HeatLevel) CSSClass() string {
	switch h {
	case HeatMild:
		return "mild"
	case HeatHot:
		return "hot"
	case HeatExtraHot:
		return "extra-hot"
	default:
		return "medium"
	}
}

func (h HeatLevel) String() string {
	switch h {
	case HeatMild:
		return "mild"
	case HeatMedium:
		return "medium"
	case HeatHot:
		return "hot"
	case HeatExtraHot:
		return "extra hot"
	default:
		return "unknown"
	}
}
