package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// HoursInDay is the number of hourly samples per forecast day.
	HoursInDay = 24
	// MaxForecastDays is the longest window Open-Meteo can serve.
	MaxForecastDays = 16

	// DefaultLatitude and DefaultLongitude point at Berlin.
	DefaultLatitude  = 52.52
	DefaultLongitude = 13.40
)

// Sensitivity biases the comfort score toward a rider's known weakness.
type Sensitivity string

const (
	SensitivityNormal Sensitivity = "normal"
	SensitivityHeat   Sensitivity = "heatSensitive"
	SensitivityCold   Sensitivity = "coldSensitive"
)

// Intensity is the activity tier 0–2; higher tiers are penalized harder in
// humid heat.
type Intensity int

// UnitSystem selects the output units of a derived series.
type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
	UnitsNautical UnitSystem = "nautical"
)

// QueryParameters is a fully normalized comfort query.
type QueryParameters struct {
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	WindowDays  int         `json:"window_days"`
	Sensitivity Sensitivity `json:"sensitivity"`
	Intensity   Intensity   `json:"intensity"`
	Units       UnitSystem  `json:"units"`
}

// RawQuery carries query values as the caller supplied them. Empty strings
// mean "not given".
type RawQuery struct {
	Latitude    string
	Longitude   string
	Days        string
	Sensitivity string
	Intensity   string
	Units       string
}

// NormalizeQuery defaults and clamps every parameter. It never fails.
func NormalizeQuery(q RawQuery) QueryParameters {
	days := math.NaN()
	if s := strings.TrimSpace(q.Days); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			days = v
		}
	}

	return QueryParameters{
		Latitude:    ParseCoordinate(q.Latitude, DefaultLatitude),
		Longitude:   ParseCoordinate(q.Longitude, DefaultLongitude),
		WindowDays:  NormalizeDays(days),
		Sensitivity: NormalizeSensitivity(q.Sensitivity),
		Intensity:   NormalizeIntensity(q.Intensity),
		Units:       NormalizeUnits(q.Units),
	}
}

// ParseCoordinate parses a decimal degree value, returning fallback when the
// value is empty, unparsable, or non-finite.
func ParseCoordinate(value string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// NormalizeDays floors a finite day count and clamps it to
// [1, MaxForecastDays]. Non-finite input means "not given" and yields
// MaxForecastDays.
func NormalizeDays(days float64) int {
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return MaxForecastDays
	}
	v := math.Max(1, math.Floor(days))
	return int(math.Min(MaxForecastDays, v))
}

// NormalizeSensitivity accepts the two named profiles and maps anything else
// to normal.
func NormalizeSensitivity(value string) Sensitivity {
	switch Sensitivity(value) {
	case SensitivityHeat, SensitivityCold:
		return Sensitivity(value)
	default:
		return SensitivityNormal
	}
}

// NormalizeIntensity accepts "1" and "2"; anything else is tier 0.
func NormalizeIntensity(value string) Intensity {
	switch strings.TrimSpace(value) {
	case "1":
		return 1
	case "2":
		return 2
	default:
		return 0
	}
}

// NormalizeUnits accepts imperial and nautical; anything else is metric.
func NormalizeUnits(value string) UnitSystem {
	switch UnitSystem(value) {
	case UnitsImperial, UnitsNautical:
		return UnitSystem(value)
	default:
		return UnitsMetric
	}
}

// CacheKey identifies queries that produce identical series. Coordinates are
// quantized to three decimals (~100 m).
func (p QueryParameters) CacheKey() string {
	return fmt.Sprintf("%.3f:%.3f:%d:%s:%d:%s",
		p.Latitude, p.Longitude, p.WindowDays, p.Sensitivity, p.Intensity, p.Units)
}
