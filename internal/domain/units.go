package domain

// Conversion factors from metric base units.
const (
	KmhToMph   = 0.621371
	KmhToKnots = 0.539957
	MmPerInch  = 25.4
	HPaToInHg  = 0.0295299830714
)

// snowNoneSentinel marks hours without snowfall.
const snowNoneSentinel = -1

// CelsiusToFahrenheit converts and rounds to one decimal.
func CelsiusToFahrenheit(c float64) float64 {
	return round(c*9/5+32, 1)
}

// KmhToMilesPerHour converts and rounds to one decimal.
func KmhToMilesPerHour(v float64) float64 {
	return round(v*KmhToMph, 1)
}

// KmhToKnotsRounded converts and rounds to one decimal.
func KmhToKnotsRounded(v float64) float64 {
	return round(v*KmhToKnots, 1)
}

// MmToInches converts and rounds to two decimals.
func MmToInches(v float64) float64 {
	return round(v/MmPerInch, 2)
}

// HPaToInchesHg converts and rounds to two decimals.
func HPaToInchesHg(v float64) float64 {
	return round(v*HPaToInHg, 2)
}

// ConvertUnits maps a metric series to the requested unit system. The input
// is not modified; converted fields get fresh slices. Nautical converts only
// wind. The snow sentinel -1 is preserved.
func ConvertUnits(s DerivedSeries, units UnitSystem) DerivedSeries {
	out := s
	out.Units = DisplayUnitsFor(units)

	switch units {
	case UnitsImperial:
		out.Temperature = mapValues(s.Temperature, CelsiusToFahrenheit)
		out.FeelsLike = mapValues(s.FeelsLike, CelsiusToFahrenheit)
		out.Wind = mapValues(s.Wind, KmhToMilesPerHour)
		out.Rain = mapValues(s.Rain, MmToInches)
		out.Snow = mapValues(s.Snow, func(v float64) float64 {
			if v == snowNoneSentinel {
				return v
			}
			return MmToInches(v)
		})
		out.Pressure = mapValues(s.Pressure, HPaToInchesHg)
	case UnitsNautical:
		out.Wind = mapValues(s.Wind, KmhToKnotsRounded)
	}
	return out
}

// DisplayUnitsFor returns the labels and precision a renderer should use.
func DisplayUnitsFor(units UnitSystem) DisplayUnits {
	switch units {
	case UnitsImperial:
		return DisplayUnits{
			System:                UnitsImperial,
			Temperature:           "°F",
			Wind:                  "mph",
			Precipitation:         "in",
			Pressure:              "inHg",
			PrecipitationDecimals: 2,
			PressureDecimals:      2,
		}
	case UnitsNautical:
		return DisplayUnits{
			System:                UnitsNautical,
			Temperature:           "°C",
			Wind:                  "kn",
			Precipitation:         "mm",
			Pressure:              "hPa",
			PrecipitationDecimals: 1,
			PressureDecimals:      0,
		}
	default:
		return DisplayUnits{
			System:                UnitsMetric,
			Temperature:           "°C",
			Wind:                  "km/h",
			Precipitation:         "mm",
			Pressure:              "hPa",
			PrecipitationDecimals: 1,
			PressureDecimals:      0,
		}
	}
}

func mapValues(in []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}
