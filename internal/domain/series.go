package domain

// DerivedSeries is the presentation-ready comfort series. Every slice has the
// same length and index i of each slice describes the same forecast hour.
// Series returned from the cache are shared and must be treated as read-only.
type DerivedSeries struct {
	Time        []int64   `json:"time"` // unix seconds, UTC
	Daylight    []int     `json:"daylight"`
	Sun         []int     `json:"sun"`
	Clouds      []float64 `json:"clouds"`
	Rain        []float64 `json:"rain"`
	Snow        []float64 `json:"snow"` // -1 means no snow
	Temperature []float64 `json:"temperature"`
	FeelsLike   []float64 `json:"feelsLike"`
	Humidity    []float64 `json:"humidity"`
	UV          []float64 `json:"uv"`
	Wet         []int     `json:"wet"`
	Ice         []int     `json:"ice"`
	Pressure    []float64 `json:"pressure"`
	Comfort     []int     `json:"comfort"`
	Wind        []float64 `json:"wind"`

	Units DisplayUnits `json:"units"`
}

// DisplayUnits tells a renderer how to label and format the unit-dependent
// fields of a series.
type DisplayUnits struct {
	System                UnitSystem `json:"system"`
	Temperature           string     `json:"temperature"`
	Wind                  string     `json:"wind"`
	Precipitation         string     `json:"precipitation"`
	Pressure              string     `json:"pressure"`
	PrecipitationDecimals int        `json:"precipitationDecimals"`
	PressureDecimals      int        `json:"pressureDecimals"`
}

// Len returns the number of hours in the series.
func (s DerivedSeries) Len() int {
	return len(s.Time)
}

func newDerivedSeries(n int) DerivedSeries {
	return DerivedSeries{
		Time:        make([]int64, 0, n),
		Daylight:    make([]int, 0, n),
		Sun:         make([]int, 0, n),
		Clouds:      make([]float64, 0, n),
		Rain:        make([]float64, 0, n),
		Snow:        make([]float64, 0, n),
		Temperature: make([]float64, 0, n),
		FeelsLike:   make([]float64, 0, n),
		Humidity:    make([]float64, 0, n),
		UV:          make([]float64, 0, n),
		Wet:         make([]int, 0, n),
		Ice:         make([]int, 0, n),
		Pressure:    make([]float64, 0, n),
		Comfort:     make([]int, 0, n),
		Wind:        make([]float64, 0, n),
		Units:       DisplayUnitsFor(UnitsMetric),
	}
}
