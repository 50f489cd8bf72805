package domain

import "math"

// Thresholds for the wet-road flag, in mm.
const (
	wetHourlyThreshold = 0.1
	wet12hThreshold    = 0.8
	wet24hThreshold    = 2.0
)

// WetFlag returns 1 when the road is likely wet at hour idx: measurable rain
// or precipitation this hour, at least 0.8 mm over the previous 12 hours, or
// at least 2 mm over the previous 24 hours. Each past hour contributes
// max(precipitation, rain). Negative samples count as zero and the lookback
// stops at the start of the series.
func WetFlag(idx int, rain, precipitation []float64) int {
	currentRain := sampleAt(rain, idx)
	currentPrecip := math.Max(sampleAt(precipitation, idx), currentRain)
	if currentRain >= wetHourlyThreshold || currentPrecip >= wetHourlyThreshold {
		return 1
	}

	// The 24h sum continues from the 12h sum rather than restarting.
	var sum float64
	for offset := 1; offset <= 24; offset++ {
		j := idx - offset
		if j < 0 {
			break
		}
		sum += math.Max(sampleAt(precipitation, j), sampleAt(rain, j))
		if offset <= 12 && sum >= wet12hThreshold {
			return 1
		}
		if offset > 12 && sum >= wet24hThreshold {
			return 1
		}
	}
	return 0
}

// IceFlag returns 1 when the road is wet and the temperature is at or below
// -1 °C. A non-finite temperature never freezes.
func IceFlag(wet int, temperature float64) int {
	if wet <= 0 || math.IsNaN(temperature) || math.IsInf(temperature, 0) {
		return 0
	}
	if temperature <= -1 {
		return 1
	}
	return 0
}

// sampleAt returns the non-negative sample at i, or 0 when i is out of range.
func sampleAt(series []float64, i int) float64 {
	if i < 0 || i >= len(series) {
		return 0
	}
	v := series[i]
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
