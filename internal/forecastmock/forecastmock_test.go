package forecastmock

import (
	"testing"
	"time"

	"github.com/couchcryptid/weacodi-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestGenerate_Shape(t *testing.T) {
	for _, name := range Scenarios() {
		t.Run(name, func(t *testing.T) {
			opts, err := Scenario(name, day)
			require.NoError(t, err)

			raw := Generate(opts)
			require.NotNil(t, raw.Hourly)
			require.NotNil(t, raw.Daily)

			hours := opts.Days * domain.HoursInDay
			assert.Len(t, raw.Hourly.Time, hours)
			for _, f := range domain.HourlyFields {
				assert.Len(t, raw.Hourly.Series[f], hours, string(f))
			}
			assert.Len(t, raw.Daily.Sunrise, opts.Days)
			assert.Len(t, raw.Daily.Sunset, opts.Days)
			assert.Equal(t, "2024-06-01T00:00", raw.Hourly.Time[0])
		})
	}
}

func TestGenerate_DiurnalCycle(t *testing.T) {
	opts, err := Scenario("mild", day)
	require.NoError(t, err)
	raw := Generate(opts)

	temps := raw.Hourly.Series[domain.FieldTemperature]
	assert.Equal(t, 23.0, temps[15])
	assert.Equal(t, 13.0, temps[3])

	radiation := raw.Hourly.Series[domain.FieldShortwaveRadiation]
	assert.Zero(t, radiation[2])
	assert.Greater(t, radiation[13], 0.0)
}

func TestGenerate_Spells(t *testing.T) {
	opts, err := Scenario("freezing-rain", day)
	require.NoError(t, err)
	raw := Generate(opts)

	rain := raw.Hourly.Series[domain.FieldRain]
	snow := raw.Hourly.Series[domain.FieldSnowfall]
	precip := raw.Hourly.Series[domain.FieldPrecipitation]

	assert.Equal(t, 0.6, rain[20])
	assert.Equal(t, 0.0, rain[26])
	assert.Equal(t, 0.2, snow[40])
	assert.Equal(t, 0.0, rain[40])
	assert.Equal(t, 2.0, precip[40])
}

func TestScenario_Unknown(t *testing.T) {
	_, err := Scenario("monsoon", day)
	require.Error(t, err)
}

func TestNow(t *testing.T) {
	opts, err := Scenario("humid-heat", day)
	require.NoError(t, err)

	now := Now(opts, 9)
	assert.Equal(t, "2024-06-02T09", domain.CurrentLocalHour(now, opts.UTCOffsetSeconds))
}
