package main

import (
	"testing"

	"github.com/couchcryptid/weacodi-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func validSeries() domain.DerivedSeries {
	return domain.DerivedSeries{
		Time:        []int64{0, 3600},
		Daylight:    []int{0, 100},
		Sun:         []int{0, 40},
		Clouds:      []float64{10, 20},
		Rain:        []float64{0, 1.2},
		Snow:        []float64{-1, 3},
		Temperature: []float64{-3, -2},
		FeelsLike:   []float64{-6, -5},
		Humidity:    []float64{80, 85},
		UV:          []float64{0, 1},
		Wet:         []int{0, 1},
		Ice:         []int{0, 1},
		Pressure:    []float64{1010, 1009},
		Comfort:     []int{40, 30},
		Wind:        []float64{12, 14},
	}
}

func oneDay() domain.QueryParameters {
	return domain.NormalizeQuery(domain.RawQuery{Days: "1"})
}

func TestRunChecks_Valid(t *testing.T) {
	for _, c := range runChecks(validSeries(), oneDay()) {
		assert.True(t, c.passed(), "%s: %v", c.name, c.errors)
	}
}

func TestRunChecks_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.DerivedSeries)
		check  string
	}{
		{"short series", func(s *domain.DerivedSeries) { s.Wind = s.Wind[:1] }, "Aligned lengths"},
		{"comfort off step", func(s *domain.DerivedSeries) { s.Comfort[0] = 45 }, "Comfort in {10..100}"},
		{"comfort zero", func(s *domain.DerivedSeries) { s.Comfort[1] = 0 }, "Comfort in {10..100}"},
		{"ice on dry road", func(s *domain.DerivedSeries) { s.Ice[0] = 1 }, "Ice implies wet"},
		{"zero snow", func(s *domain.DerivedSeries) { s.Snow[0] = 0 }, "Snow sentinel"},
		{"time goes backwards", func(s *domain.DerivedSeries) { s.Time[1] = -1 }, "Increasing timestamps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSeries()
			tt.mutate(&s)

			var failed []string
			for _, c := range runChecks(s, oneDay()) {
				if !c.passed() {
					failed = append(failed, c.name)
				}
			}
			assert.Equal(t, []string{tt.check}, failed)
		})
	}
}

func TestCheckLengths_WindowLimit(t *testing.T) {
	s := domain.DerivedSeries{Time: make([]int64, 25)}
	c := checkLengths(s, oneDay())
	assert.False(t, c.passed())
	assert.Contains(t, c.errors[0], "exceeds window of 24")
}

func TestCheckSnow_ImperialRoundsLightSnowToZero(t *testing.T) {
	s := validSeries()
	s.Snow[1] = 0

	assert.True(t, checkSnow(s, domain.UnitsImperial).passed())
	assert.False(t, checkSnow(s, domain.UnitsMetric).passed())

	s.Snow[1] = -0.5
	assert.False(t, checkSnow(s, domain.UnitsImperial).passed())
}
