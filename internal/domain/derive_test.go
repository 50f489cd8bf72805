package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

// forecastFixture is a Berlin-like summer forecast: one past day plus three
// forecast days of mild, dry weather.
func forecastFixture() RawForecast {
	const hours = 96
	times := hourlyTimes(time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), hours)

	constant := func(v float64) []float64 {
		out := make([]float64, hours)
		for i := range out {
			out[i] = v
		}
		return out
	}

	var sunrises, sunsets []string
	for d := 0; d < 4; d++ {
		day := time.Date(2024, 5, 31+d, 0, 0, 0, 0, time.UTC)
		sunrises = append(sunrises, day.Add(5*time.Hour).Format(hourLayout))
		sunsets = append(sunsets, day.Add(21*time.Hour).Format(hourLayout))
	}

	return RawForecast{
		UTCOffsetSeconds: 7200,
		Hourly: &HourlyData{
			Time: times,
			Series: map[Field][]float64{
				FieldTemperature:        constant(20),
				FieldRelativeHumidity:   constant(50),
				FieldWindSpeed:          constant(10),
				FieldCloudCover:         constant(25),
				FieldPrecipitation:      constant(0),
				FieldRain:               constant(0),
				FieldSnowfall:           constant(0),
				FieldSurfacePressure:    constant(1013),
				FieldUVIndex:            constant(3),
				FieldShortwaveRadiation: constant(0),
			},
		},
		Daily: &DailyData{Sunrise: sunrises, Sunset: sunsets},
	}
}

func defaultParams() QueryParameters {
	return NormalizeQuery(RawQuery{Days: "1"})
}

func freezeClock(t *testing.T) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(testNow))
	t.Cleanup(func() { SetClock(nil) })
}

func assertAligned(t *testing.T, s DerivedSeries) {
	t.Helper()
	n := s.Len()
	assert.Len(t, s.Daylight, n)
	assert.Len(t, s.Sun, n)
	assert.Len(t, s.Clouds, n)
	assert.Len(t, s.Rain, n)
	assert.Len(t, s.Snow, n)
	assert.Len(t, s.Temperature, n)
	assert.Len(t, s.FeelsLike, n)
	assert.Len(t, s.Humidity, n)
	assert.Len(t, s.UV, n)
	assert.Len(t, s.Wet, n)
	assert.Len(t, s.Ice, n)
	assert.Len(t, s.Pressure, n)
	assert.Len(t, s.Comfort, n)
	assert.Len(t, s.Wind, n)
}

func TestBuildSeries(t *testing.T) {
	freezeClock(t)

	s, err := BuildSeries(forecastFixture(), defaultParams())
	require.NoError(t, err)

	require.Equal(t, 24, s.Len())
	assertAligned(t, s)

	// Local 12:00 at UTC+2 is 10:00 UTC.
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC).Unix(), s.Time[0])
	assert.Equal(t, int64(3600), s.Time[1]-s.Time[0])

	assert.Equal(t, 100, s.Daylight[0])
	assert.Equal(t, 88, s.Sun[0])
	assert.Equal(t, 100, s.Sun[1])
	assert.Equal(t, 0, s.Daylight[10])
	assert.Equal(t, 0, s.Sun[10])

	assert.Equal(t, 20.0, s.Temperature[0])
	assert.Equal(t, 17.9, s.FeelsLike[0])
	assert.Equal(t, 50.0, s.Humidity[0])
	assert.Equal(t, 10.0, s.Wind[0])
	assert.Equal(t, 25.0, s.Clouds[0])
	assert.Equal(t, 3.0, s.UV[0])
	assert.Equal(t, 1013.0, s.Pressure[0])
	assert.Equal(t, float64(snowNoneSentinel), s.Snow[0])
	assert.Equal(t, UnitsMetric, s.Units.System)

	for i := range s.Comfort {
		assert.Equal(t, 100, s.Comfort[i])
		assert.Equal(t, 0, s.Wet[i])
		assert.Equal(t, 0, s.Ice[i])
	}
}

func TestBuildSeries_WindowDays(t *testing.T) {
	freezeClock(t)

	params := defaultParams()
	params.WindowDays = 16
	s, err := BuildSeries(forecastFixture(), params)
	require.NoError(t, err)

	// 96 hours minus the 36 already past.
	assert.Equal(t, 60, s.Len())
	assertAligned(t, s)
}

func TestBuildSeries_WetAndIce(t *testing.T) {
	freezeClock(t)

	raw := forecastFixture()
	temps := raw.Hourly.Series[FieldTemperature]
	for i := range temps {
		temps[i] = -4
	}
	raw.Hourly.Series[FieldRain][40] = 0.3
	raw.Hourly.Series[FieldSnowfall][41] = 1.2

	s, err := BuildSeries(raw, defaultParams())
	require.NoError(t, err)

	// Index 40 is the fifth hour of the window.
	assert.Equal(t, 0, s.Wet[3])
	assert.Equal(t, 1, s.Wet[4])
	assert.Equal(t, 1, s.Ice[4])
	assert.Equal(t, 0.3, s.Rain[4])
	assert.Equal(t, 12.0, s.Snow[5])
	assert.Equal(t, float64(snowNoneSentinel), s.Snow[4])

	for i := range s.Ice {
		if s.Ice[i] == 1 {
			assert.Equal(t, 1, s.Wet[i], "ice without wet at %d", i)
		}
	}
}

func TestBuildSeries_ClampsSamples(t *testing.T) {
	freezeClock(t)

	raw := forecastFixture()
	raw.Hourly.Series[FieldRelativeHumidity][36] = 130
	raw.Hourly.Series[FieldRain][36] = -2
	raw.Hourly.Series[FieldUVIndex][36] = -1
	raw.Hourly.Series[FieldSurfacePressure][36] = -5

	s, err := BuildSeries(raw, defaultParams())
	require.NoError(t, err)

	assert.Equal(t, 100.0, s.Humidity[0])
	assert.Equal(t, 0.0, s.Rain[0])
	assert.Equal(t, 0.0, s.UV[0])
	assert.Equal(t, 0.0, s.Pressure[0])
}

func TestBuildSeries_MissingSeries(t *testing.T) {
	freezeClock(t)

	raw := forecastFixture()
	delete(raw.Hourly.Series, FieldUVIndex)
	raw.Hourly.Series[FieldCloudCover] = raw.Hourly.Series[FieldCloudCover][:40]

	s, err := BuildSeries(raw, defaultParams())
	require.NoError(t, err)
	assertAligned(t, s)
	assert.Equal(t, 0.0, s.UV[0])
	assert.Equal(t, 25.0, s.Clouds[3])
	assert.Equal(t, 0.0, s.Clouds[4])
}

func TestBuildSeries_UnparsableTime(t *testing.T) {
	freezeClock(t)

	raw := forecastFixture()
	raw.Hourly.Time[40] = "garbage"

	s, err := BuildSeries(raw, defaultParams())
	require.NoError(t, err)
	assert.Equal(t, testNow.Unix(), s.Time[4])
	assert.Equal(t, 0, s.Daylight[4])
}

func TestBuildSeries_Imperial(t *testing.T) {
	freezeClock(t)

	params := defaultParams()
	params.Units = UnitsImperial
	s, err := BuildSeries(forecastFixture(), params)
	require.NoError(t, err)

	assert.Equal(t, 68.0, s.Temperature[0])
	assert.Equal(t, 6.2, s.Wind[0])
	assert.Equal(t, 29.91, s.Pressure[0])
	assert.Equal(t, 100, s.Comfort[0])
	assert.Equal(t, "°F", s.Units.Temperature)
}

func TestBuildSeries_MalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		raw  RawForecast
	}{
		{"no hourly", RawForecast{Daily: &DailyData{}}},
		{"no daily", RawForecast{Hourly: &HourlyData{}}},
		{"empty", RawForecast{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildSeries(tt.raw, defaultParams())
			require.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestBuildSeries_EmptyHourly(t *testing.T) {
	freezeClock(t)

	s, err := BuildSeries(RawForecast{Hourly: &HourlyData{}, Daily: &DailyData{}}, defaultParams())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assertAligned(t, s)
}

func TestSetClock(t *testing.T) {
	t.Run("set custom clock", func(t *testing.T) {
		mockClock := clockwork.NewFakeClockAt(testNow)

		SetClock(mockClock)
		assert.Equal(t, testNow, clock.Now())

		SetClock(nil)
	})

	t.Run("reset to real clock", func(t *testing.T) {
		SetClock(clockwork.NewFakeClockAt(testNow))
		SetClock(nil)

		now := clock.Now()
		assert.True(t, time.Since(now) < time.Second)
	})
}

func TestNewSeriesMessage(t *testing.T) {
	freezeClock(t)

	params := defaultParams()
	series, err := BuildSeries(forecastFixture(), params)
	require.NoError(t, err)

	msg := NewSeriesMessage(params, series)
	assert.Equal(t, params.CacheKey(), msg.Key)
	assert.Equal(t, params, msg.Query)
	assert.Equal(t, testNow, msg.GeneratedAt)
	assert.Equal(t, series.Len(), msg.Series.Len())
}
