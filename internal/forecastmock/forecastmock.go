// Package forecastmock builds deterministic synthetic Open-Meteo forecasts
// for fixtures, local runs, and tests. Curves are smooth diurnal cycles with
// optional precipitation spells; nothing is random.
package forecastmock

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/couchcryptid/weacodi-service/internal/domain"
)

const hourLayout = "2006-01-02T15:04"

// Spell is a block of constant precipitation starting StartHour hours after
// Options.Start. Snow spells report snowfall in cm (rate/10) and no rain.
type Spell struct {
	StartHour int
	Hours     int
	Rate      float64 // mm/h
	Snow      bool
}

// Options describes a synthetic forecast. Start is local midnight of the
// first day; the first day plays the role of Open-Meteo's past_days=1.
type Options struct {
	Start            time.Time
	Days             int
	UTCOffsetSeconds int
	Timezone         string

	MeanTemperature  float64 // °C
	TemperatureSwing float64 // °C above and below the mean
	Humidity         float64 // %
	WindSpeed        float64 // km/h
	Sunrise          time.Duration
	Sunset           time.Duration
	Spells           []Spell
}

var scenarios = map[string]Options{
	"mild": {
		Days: 4, UTCOffsetSeconds: 7200, Timezone: "Europe/Berlin",
		MeanTemperature: 18, TemperatureSwing: 5, Humidity: 55, WindSpeed: 9,
		Sunrise: 5*time.Hour + 12*time.Minute, Sunset: 20*time.Hour + 48*time.Minute,
	},
	"humid-heat": {
		Days: 4, UTCOffsetSeconds: -18000, Timezone: "America/Chicago",
		MeanTemperature: 30, TemperatureSwing: 4, Humidity: 80, WindSpeed: 4,
		Sunrise: 6 * time.Hour, Sunset: 20*time.Hour + 30*time.Minute,
	},
	"freezing-rain": {
		Days: 4, UTCOffsetSeconds: 3600, Timezone: "Europe/Oslo",
		MeanTemperature: -4, TemperatureSwing: 2, Humidity: 90, WindSpeed: 18,
		Sunrise: 8*time.Hour + 40*time.Minute, Sunset: 15*time.Hour + 30*time.Minute,
		Spells: []Spell{
			{StartHour: 20, Hours: 6, Rate: 0.6},
			{StartHour: 40, Hours: 4, Rate: 2, Snow: true},
		},
	},
}

// Scenarios lists the named presets in sorted order.
func Scenarios() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scenario returns the named preset starting at local midnight of start's day.
func Scenario(name string, start time.Time) (Options, error) {
	opts, ok := scenarios[name]
	if !ok {
		return Options{}, fmt.Errorf("unknown scenario %q", name)
	}
	opts.Start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	opts.Spells = append([]Spell(nil), opts.Spells...)
	return opts, nil
}

// Generate builds the forecast. Local hour strings are produced by formatting
// Start-relative times in UTC, so Start should carry no zone of its own.
func Generate(opts Options) domain.RawForecast {
	hours := opts.Days * domain.HoursInDay
	start := time.Date(opts.Start.Year(), opts.Start.Month(), opts.Start.Day(), 0, 0, 0, 0, time.UTC)

	times := make([]string, hours)
	series := make(map[domain.Field][]float64, len(domain.HourlyFields))
	for _, f := range domain.HourlyFields {
		series[f] = make([]float64, hours)
	}

	for i := range hours {
		local := start.Add(time.Duration(i) * time.Hour)
		times[i] = local.Format(hourLayout)
		hour := float64(local.Hour())

		precip, snow := precipitationAt(opts.Spells, i)
		cloud := 20.0
		if precip > 0 {
			cloud = 90
		}

		radiation := 0.0
		rise, set := opts.Sunrise.Hours(), opts.Sunset.Hours()
		if hour > rise && hour < set {
			radiation = 850 * math.Sin(math.Pi*(hour-rise)/(set-rise)) * (1 - 0.75*cloud/100)
		}

		series[domain.FieldTemperature][i] = round1(opts.MeanTemperature + opts.TemperatureSwing*math.Cos(2*math.Pi*(hour-15)/24))
		series[domain.FieldRelativeHumidity][i] = math.Round(math.Max(5, math.Min(100, opts.Humidity+10*math.Cos(2*math.Pi*(hour-5)/24))))
		series[domain.FieldWindSpeed][i] = round1(opts.WindSpeed * (1 + 0.3*math.Sin(2*math.Pi*(hour-9)/24)))
		series[domain.FieldCloudCover][i] = cloud
		series[domain.FieldSurfacePressure][i] = round1(1013 + 3*math.Sin(2*math.Pi*float64(i)/72))
		series[domain.FieldShortwaveRadiation][i] = math.Round(radiation)
		series[domain.FieldUVIndex][i] = round1(radiation / 100)
		series[domain.FieldPrecipitation][i] = precip
		if snow {
			series[domain.FieldSnowfall][i] = round1(precip / 10)
		} else {
			series[domain.FieldRain][i] = precip
		}
	}

	daily := &domain.DailyData{}
	for d := range opts.Days {
		day := start.AddDate(0, 0, d)
		daily.Time = append(daily.Time, day.Format("2006-01-02"))
		daily.Sunrise = append(daily.Sunrise, day.Add(opts.Sunrise).Format(hourLayout))
		daily.Sunset = append(daily.Sunset, day.Add(opts.Sunset).Format(hourLayout))
	}

	return domain.RawForecast{
		Hourly:           &domain.HourlyData{Time: times, Series: series},
		Daily:            daily,
		UTCOffsetSeconds: opts.UTCOffsetSeconds,
		Timezone:         opts.Timezone,
	}
}

// Now returns the UTC instant that is local hour h of the second day, the
// first forecast day after the past day.
func Now(opts Options, h int) time.Time {
	start := time.Date(opts.Start.Year(), opts.Start.Month(), opts.Start.Day(), 0, 0, 0, 0, time.UTC)
	local := start.Add(time.Duration(domain.HoursInDay+h) * time.Hour)
	return local.Add(-time.Duration(opts.UTCOffsetSeconds) * time.Second)
}

func precipitationAt(spells []Spell, i int) (float64, bool) {
	for _, s := range spells {
		if i >= s.StartHour && i < s.StartHour+s.Hours {
			return s.Rate, s.Snow
		}
	}
	return 0, false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
