package domain

import "time"

// currentHourLayout formats "now" to hour granularity so it sorts before
// every "YYYY-MM-DDTHH:MM" string of the same hour.
const currentHourLayout = "2006-01-02T15"

// Window is the half-open index range [Start, End) of hourly samples selected
// for derivation.
type Window struct {
	Start int
	End   int
}

// Len returns the number of selected hours.
func (w Window) Len() int {
	return w.End - w.Start
}

// SelectWindow picks up to windowDays*24 hours starting at the current local
// hour. When the whole forecast lies in the past it falls back to the last
// windowDays*24 hours.
func SelectWindow(times []string, utcOffsetSeconds, windowDays int, now time.Time) Window {
	if windowDays < 1 {
		windowDays = 1
	}
	maxPoints := windowDays * HoursInDay

	current := CurrentLocalHour(now, utcOffsetSeconds)
	start := -1
	for i, t := range times {
		if t >= current {
			start = i
			break
		}
	}
	if start < 0 {
		start = max(len(times)-maxPoints, 0)
	}

	return Window{Start: start, End: min(start+maxPoints, len(times))}
}

// CurrentLocalHour formats now shifted by the location's UTC offset, e.g.
// "2024-06-01T12".
func CurrentLocalHour(now time.Time, utcOffsetSeconds int) string {
	return now.UTC().Add(time.Duration(utcOffsetSeconds) * time.Second).Format(currentHourLayout)
}
