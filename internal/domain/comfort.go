package domain

// Conditions are the per-hour inputs to the comfort score, in metric units.
type Conditions struct {
	Temperature    float64 // °C
	DewPoint       float64 // °C
	WindSpeed      float64 // km/h
	Precipitation  float64 // mm/h
	Humidity       float64 // %
	SolarRadiation float64 // W/m²
	Sensitivity    Sensitivity
	Intensity      Intensity
}

// ComfortRule returns a score adjustment for one aspect of the conditions.
// Rules read only their inputs, never the running score.
type ComfortRule func(Conditions) int

// ComfortRules is the ordered rule set folded by ComfortScore.
var ComfortRules = []ComfortRule{
	temperatureBandRule,
	coldExtremityRule,
	extremeHeatRule,
	dewPointRule,
	windRule,
	precipitationRule,
	solarRadiationRule,
	humidHeatSolarRule,
	sensitivityRule,
	intensityHeatRule,
}

const (
	comfortBase = 10
	comfortMin  = 1
	comfortMax  = 10
)

// ComfortScore folds ComfortRules over the conditions and returns a value in
// {10, 20, …, 100}.
func ComfortScore(c Conditions) int {
	score := comfortBase
	for _, rule := range ComfortRules {
		score += rule(c)
	}
	return max(comfortMin, min(score, comfortMax)) * 10
}

// temperatureBandRule: outside 5–35 °C costs 4, the shoulders 5–15 and
// 25–35 °C cost 2.
func temperatureBandRule(c Conditions) int {
	t := c.Temperature
	switch {
	case t < 5 || t > 35:
		return -4
	case t < 15 || t >= 25:
		return -2
	default:
		return 0
	}
}

func coldExtremityRule(c Conditions) int {
	switch t := c.Temperature; {
	case t < -6:
		return -3
	case t < -3:
		return -2
	case t < 0:
		return -1
	default:
		return 0
	}
}

func extremeHeatRule(c Conditions) int {
	if c.Temperature > 40 {
		return -3
	}
	return 0
}

// dewPointRule rewards dry air and penalizes muggy air in steps.
func dewPointRule(c Conditions) int {
	switch dp := c.DewPoint; {
	case dp <= 10:
		return 1
	case dp <= 13:
		return 0
	case dp <= 16:
		return -1
	case dp <= 19:
		return -2
	case dp <= 22:
		return -3
	case dp <= 25:
		return -4
	default:
		return -5
	}
}

// windRule penalizes strong wind; a moderate breeze helps in humid heat.
func windRule(c Conditions) int {
	switch w := c.WindSpeed; {
	case w > 25:
		return -3
	case w >= 15:
		return -1
	case w >= 5 && c.Temperature > 25 && c.DewPoint > 16:
		return 1
	default:
		return 0
	}
}

func precipitationRule(c Conditions) int {
	switch p := c.Precipitation; {
	case p > 10:
		return -5
	case p >= 5:
		return -3
	case p >= 1:
		return -1
	default:
		return 0
	}
}

// solarRadiationRule: sunshine warms a cold ride and overheats a hot one.
// The first matching case wins.
func solarRadiationRule(c Conditions) int {
	t, r := c.Temperature, c.SolarRadiation
	switch {
	case t < 10 && r > 300:
		return 2
	case t < 20 && r > 500:
		return 1
	case t > 28 && r > 400:
		return -2
	case t > 25 && r > 300:
		return -1
	default:
		return 0
	}
}

// humidHeatSolarRule stacks both penalties when both apply.
func humidHeatSolarRule(c Conditions) int {
	delta := 0
	if c.DewPoint > 18 && c.SolarRadiation > 400 && c.WindSpeed < 10 && c.Temperature > 25 {
		delta--
	}
	if c.DewPoint > 21 && c.SolarRadiation > 500 && c.WindSpeed < 5 && c.Temperature > 28 {
		delta -= 2
	}
	return delta
}

func sensitivityRule(c Conditions) int {
	delta := 0
	switch c.Sensitivity {
	case SensitivityHeat:
		if c.DewPoint > 16 {
			delta--
		}
		if c.Temperature > 28 {
			delta--
		}
	case SensitivityCold:
		if c.Temperature < 10 {
			delta--
		}
		if c.WindSpeed > 15 {
			delta--
		}
	}
	return delta
}

// intensityHeatRule scales the heat-stress penalty with the activity tier.
func intensityHeatRule(c Conditions) int {
	switch {
	case c.DewPoint > 22 && c.Temperature > 30:
		return [...]int{-2, -3, -4}[clampIntensity(c.Intensity)]
	case c.DewPoint > 19 && c.Temperature > 28:
		return [...]int{-1, -2, -3}[clampIntensity(c.Intensity)]
	default:
		return 0
	}
}

func clampIntensity(i Intensity) int {
	switch i {
	case 1, 2:
		return int(i)
	default:
		return 0
	}
}
