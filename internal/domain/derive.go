package domain

import (
	"math"
	"time"
)

// hourLayout is the Open-Meteo iso8601 hour format.
const hourLayout = "2006-01-02T15:04"

// resolvedHourly is the zero-filled view of the hourly payload the per-hour
// loop reads from.
type resolvedHourly struct {
	temperature   []float64
	wind          []float64
	humidity      []float64
	clouds        []float64
	precipitation []float64
	rain          []float64
	snowfall      []float64
	pressure      []float64
	uv            []float64
	radiation     []float64
}

func resolveHourly(h HourlyData) resolvedHourly {
	return resolvedHourly{
		temperature:   h.Resolve(FieldTemperature),
		wind:          h.Resolve(FieldWindSpeed),
		humidity:      h.Resolve(FieldRelativeHumidity),
		clouds:        h.Resolve(FieldCloudCover),
		precipitation: h.Resolve(FieldPrecipitation),
		rain:          h.Resolve(FieldRain),
		snowfall:      h.Resolve(FieldSnowfall),
		pressure:      h.Resolve(FieldSurfacePressure),
		uv:            h.Resolve(FieldUVIndex),
		radiation:     h.Resolve(FieldShortwaveRadiation),
	}
}

// BuildSeries derives the comfort series for the window starting at the
// current local hour and converts it to the requested units.
func BuildSeries(raw RawForecast, params QueryParameters) (DerivedSeries, error) {
	if raw.Hourly == nil || raw.Daily == nil {
		return DerivedSeries{}, ErrMalformedPayload
	}

	hourly := *raw.Hourly
	daily := *raw.Daily
	offset := raw.UTCOffsetSeconds

	window := SelectWindow(hourly.Time, offset, params.WindowDays, clock.Now())
	r := resolveHourly(hourly)
	out := newDerivedSeries(window.Len())

	for i := window.Start; i < window.End; i++ {
		t := hourly.Time[i]
		out.Time = append(out.Time, toUnix(t, offset))

		daylight, sun := 0, 0
		if IsDaylight(t, daily.Sunrise, daily.Sunset) {
			daylight = 100
			sun = SunIntensity(t, daily.Sunrise, daily.Sunset)
		}
		out.Daylight = append(out.Daylight, daylight)
		out.Sun = append(out.Sun, sun)

		out.Clouds = append(out.Clouds, r.clouds[i])
		out.Rain = append(out.Rain, math.Max(r.rain[i], 0))
		out.Snow = append(out.Snow, snowValue(r.snowfall[i]))

		temperature := r.temperature[i]
		wind := r.wind[i]
		humidity := clampPercentage(r.humidity[i])
		out.Wind = append(out.Wind, wind)
		out.Temperature = append(out.Temperature, temperature)
		out.Humidity = append(out.Humidity, humidity)
		out.UV = append(out.UV, math.Max(r.uv[i], 0))
		out.FeelsLike = append(out.FeelsLike, ApparentTemperature(temperature, humidity, wind))

		wet := WetFlag(i, r.rain, r.precipitation)
		out.Wet = append(out.Wet, wet)
		out.Ice = append(out.Ice, IceFlag(wet, temperature))
		out.Pressure = append(out.Pressure, math.Max(r.pressure[i], 0))

		out.Comfort = append(out.Comfort, ComfortScore(Conditions{
			Temperature:    temperature,
			DewPoint:       DewPoint(temperature, humidity),
			WindSpeed:      wind,
			Precipitation:  r.precipitation[i],
			Humidity:       humidity,
			SolarRadiation: r.radiation[i],
			Sensitivity:    params.Sensitivity,
			Intensity:      params.Intensity,
		}))
	}

	return ConvertUnits(out, params.Units), nil
}

// snowValue converts snowfall in cm to mm, or returns the sentinel when
// there is none.
func snowValue(cm float64) float64 {
	if cm > 0 {
		return cm * 10
	}
	return snowNoneSentinel
}

// toUnix converts a local hour string to unix seconds. Unparsable strings
// fall back to the current time.
func toUnix(t string, utcOffsetSeconds int) int64 {
	parsed, err := time.Parse(hourLayout, t)
	if err != nil {
		return clock.Now().Unix()
	}
	return parsed.Unix() - int64(utcOffsetSeconds)
}
