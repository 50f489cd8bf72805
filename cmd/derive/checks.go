package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/couchcryptid/weacodi-service/internal/domain"
)

// check collects the violations found by one invariant.
type check struct {
	name   string
	errors []string
}

func (c *check) errorf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *check) passed() bool { return len(c.errors) == 0 }

func runChecks(s domain.DerivedSeries, params domain.QueryParameters) []*check {
	return []*check{
		checkLengths(s, params),
		checkComfort(s),
		checkWetIce(s),
		checkSnow(s, params.Units),
		checkTime(s),
	}
}

func checkLengths(s domain.DerivedSeries, params domain.QueryParameters) *check {
	c := &check{name: "Aligned lengths"}
	n := s.Len()
	if limit := params.WindowDays * domain.HoursInDay; n > limit {
		c.errorf("%d hours exceeds window of %d", n, limit)
	}
	lengths := map[string]int{
		"daylight": len(s.Daylight), "sun": len(s.Sun), "clouds": len(s.Clouds),
		"rain": len(s.Rain), "snow": len(s.Snow), "temperature": len(s.Temperature),
		"feelsLike": len(s.FeelsLike), "humidity": len(s.Humidity), "uv": len(s.UV),
		"wet": len(s.Wet), "ice": len(s.Ice), "pressure": len(s.Pressure),
		"comfort": len(s.Comfort), "wind": len(s.Wind),
	}
	for _, name := range slices.Sorted(maps.Keys(lengths)) {
		if lengths[name] != n {
			c.errorf("%s has %d samples, time has %d", name, lengths[name], n)
		}
	}
	return c
}

func checkComfort(s domain.DerivedSeries) *check {
	c := &check{name: "Comfort in {10..100}"}
	for i, v := range s.Comfort {
		if v < 10 || v > 100 || v%10 != 0 {
			c.errorf("hour %d: comfort %d", i, v)
		}
	}
	return c
}

func checkWetIce(s domain.DerivedSeries) *check {
	c := &check{name: "Ice implies wet"}
	for i := range min(len(s.Wet), len(s.Ice)) {
		if s.Ice[i] == 1 && s.Wet[i] == 0 {
			c.errorf("hour %d: ice without wet", i)
		}
		if s.Wet[i] != 0 && s.Wet[i] != 1 {
			c.errorf("hour %d: wet flag %d", i, s.Wet[i])
		}
	}
	return c
}

// checkSnow accepts 0 in imperial units, where light snow rounds below
// 0.01 in.
func checkSnow(s domain.DerivedSeries, units domain.UnitSystem) *check {
	c := &check{name: "Snow sentinel"}
	for i, v := range s.Snow {
		if v == 0 && units == domain.UnitsImperial {
			continue
		}
		if v != -1 && v <= 0 {
			c.errorf("hour %d: snow %v is neither -1 nor positive", i, v)
		}
	}
	return c
}

func checkTime(s domain.DerivedSeries) *check {
	c := &check{name: "Increasing timestamps"}
	for i := 1; i < len(s.Time); i++ {
		if s.Time[i] <= s.Time[i-1] {
			c.errorf("hour %d: %d does not follow %d", i, s.Time[i], s.Time[i-1])
		}
	}
	return c
}
