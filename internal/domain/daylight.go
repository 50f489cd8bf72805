package domain

import (
	"math"
	"strconv"
)

// IsDaylight reports whether the hour string falls within any
// [sunrise, sunset] interval, inclusive on both ends.
func IsDaylight(t string, sunrises, sunsets []string) bool {
	_, _, ok := daylightInterval(t, sunrises, sunsets)
	return ok
}

// SunIntensity returns a 0–100 triangular curve that peaks at solar noon,
// the midpoint between the day's sunrise and sunset. Hours outside daylight
// return 0. A zero-length day returns 100.
func SunIntensity(t string, sunrises, sunsets []string) int {
	sunrise, sunset, ok := daylightInterval(t, sunrises, sunsets)
	if !ok {
		return 0
	}

	sunriseHour := parseHourOfDay(sunrise)
	sunsetHour := parseHourOfDay(sunset)
	noon := sunriseHour + (sunsetHour-sunriseHour)/2
	span := math.Abs(noon - sunriseHour)
	if span <= 0 {
		return 100
	}

	intensity := 1 - math.Abs(parseHourOfDay(t)-noon)/span
	return int(math.Max(0, math.Min(100, roundHalfUp(intensity*100))))
}

// daylightInterval finds the first sunrise/sunset pair containing t.
func daylightInterval(t string, sunrises, sunsets []string) (string, string, bool) {
	n := min(len(sunrises), len(sunsets))
	for i := 0; i < n; i++ {
		sunrise, sunset := sunrises[i], sunsets[i]
		if sunrise == "" || sunset == "" {
			continue
		}
		if t >= sunrise && t <= sunset {
			return sunrise, sunset, true
		}
	}
	return "", "", false
}

// parseHourOfDay reads "HH:MM" out of "YYYY-MM-DDTHH:MM" as fractional hours.
// Short or garbled strings read as midnight.
func parseHourOfDay(s string) float64 {
	if len(s) < 16 {
		return 0
	}
	hour, err := strconv.Atoi(s[11:13])
	if err != nil {
		hour = 0
	}
	minute, err := strconv.Atoi(s[14:16])
	if err != nil {
		minute = 0
	}
	return float64(hour) + float64(minute)/60
}
