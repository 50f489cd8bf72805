package domain

import "math"

// Magnus coefficients over water (T > 0) and over ice.
const (
	magnusBWater = 17.368
	magnusCWater = 238.88
	magnusBIce   = 17.966
	magnusCIce   = 247.15
)

// DewPoint returns the dew point in °C for a temperature in °C and a relative
// humidity in percent. Humidity is clamped to [0, 100]; 0 % yields NaN.
func DewPoint(temperature, humidity float64) float64 {
	h := clampPercentage(humidity)
	b, c := magnusBIce, magnusCIce
	if temperature > 0 {
		b, c = magnusBWater, magnusCWater
	}

	pa := (h / 100) * math.Exp(b*temperature/(c+temperature))
	lnPa := math.Log(pa)
	return c * lnPa / (b - lnPa)
}

// ApparentTemperature returns the Australian BoM apparent temperature in °C,
// rounded to one decimal. Wind is given in km/h.
func ApparentTemperature(temperature, humidity, windKmh float64) float64 {
	rh := clampPercentage(humidity)
	windMs := math.Max(0, windKmh) / 3.6
	vaporPressure := (rh / 100) * 6.105 * math.Exp(17.27*temperature/(237.7+temperature))
	return round(temperature+0.33*vaporPressure-0.7*windMs-4.0, 1)
}

// clampPercentage bounds v to [0, 100]; non-finite values become 0.
func clampPercentage(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

// round rounds half up to the given number of decimals. Non-finite values
// become 0.
func round(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	factor := math.Pow(10, float64(decimals))
	return roundHalfUp(v*factor) / factor
}

// roundHalfUp rounds .5 toward +Inf, so -2.5 becomes -2.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
