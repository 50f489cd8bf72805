package domain

import (
	"encoding/json"
	"fmt"
)

// Field names an Open-Meteo hourly series.
type Field string

// Hourly fields requested from Open-Meteo and consumed by the derivation.
const (
	FieldTemperature        Field = "temperature_2m"
	FieldWindSpeed          Field = "wind_speed_10m"
	FieldRelativeHumidity   Field = "relative_humidity_2m"
	FieldCloudCover         Field = "cloudcover"
	FieldPrecipitation      Field = "precipitation"
	FieldRain               Field = "rain"
	FieldSnowfall           Field = "snowfall"
	FieldSurfacePressure    Field = "surface_pressure"
	FieldUVIndex            Field = "uv_index"
	FieldShortwaveRadiation Field = "shortwave_radiation"
)

// HourlyFields lists every hourly series in request order.
var HourlyFields = []Field{
	FieldTemperature,
	FieldWindSpeed,
	FieldRelativeHumidity,
	FieldCloudCover,
	FieldPrecipitation,
	FieldRain,
	FieldSnowfall,
	FieldSurfacePressure,
	FieldUVIndex,
	FieldShortwaveRadiation,
}

// DailyFields lists the daily series requested from Open-Meteo.
var DailyFields = []string{"sunrise", "sunset"}

// RawForecast is the subset of an Open-Meteo forecast response the
// derivation needs. Hourly and Daily are nil when the payload omitted them.
type RawForecast struct {
	Hourly           *HourlyData `json:"hourly"`
	Daily            *DailyData  `json:"daily"`
	UTCOffsetSeconds int         `json:"utc_offset_seconds"`
	Timezone         string      `json:"timezone,omitempty"`
}

// DailyData holds one sunrise/sunset pair per calendar day.
type DailyData struct {
	Time    []string `json:"time,omitempty"`
	Sunrise []string `json:"sunrise"`
	Sunset  []string `json:"sunset"`
}

// HourlyData holds the hourly time axis and the numeric series that came
// with it. A series missing from Series was absent in the payload.
type HourlyData struct {
	Time   []string
	Series map[Field][]float64
}

// Resolve returns the named series with exactly len(Time) samples. Absent
// series and missing trailing samples are zero.
func (h HourlyData) Resolve(f Field) []float64 {
	out := make([]float64, len(h.Time))
	copy(out, h.Series[f])
	return out
}

// UnmarshalJSON decodes the Open-Meteo "hourly" object. Unknown fields are
// ignored and null samples decode as zero.
func (h *HourlyData) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode hourly: %w", err)
	}

	h.Time = nil
	if t, ok := raw["time"]; ok {
		if err := json.Unmarshal(t, &h.Time); err != nil {
			return fmt.Errorf("decode hourly time: %w", err)
		}
	}

	h.Series = make(map[Field][]float64, len(HourlyFields))
	for _, f := range HourlyFields {
		msg, ok := raw[string(f)]
		if !ok {
			continue
		}
		var samples []*float64
		if err := json.Unmarshal(msg, &samples); err != nil {
			return fmt.Errorf("decode hourly %s: %w", f, err)
		}
		if samples == nil {
			continue
		}
		values := make([]float64, len(samples))
		for i, v := range samples {
			if v != nil {
				values[i] = *v
			}
		}
		h.Series[f] = values
	}
	return nil
}

// MarshalJSON encodes the hourly data in the Open-Meteo layout.
func (h HourlyData) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(h.Series)+1)
	out["time"] = h.Time
	for f, values := range h.Series {
		out[string(f)] = values
	}
	return json.Marshal(out)
}
