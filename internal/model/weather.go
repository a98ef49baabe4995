package model

import "strings"

// LocationQuery identifies the place to look up. The fields are passed to the
// provider as given; geographic correctness is the provider's concern.
type LocationQuery struct {
	City        string
	StateCode   string
	CountryCode string
}

// UnitSystem selects both the provider's units parameter and the display suffixes.
type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
	Standard UnitSystem = "standard"
)

// ParseUnitSystem resolves user input case-insensitively. Anything other than
// metric or imperial resolves to Standard; ok is false when the input was not
// one of the three known names.
func ParseUnitSystem(s string) (units UnitSystem, ok bool) {
	switch UnitSystem(strings.ToLower(strings.TrimSpace(s))) {
	case Metric:
		return Metric, true
	case Imperial:
		return Imperial, true
	case Standard:
		return Standard, true
	default:
		return Standard, false
	}
}

func (u UnitSystem) String() string {
	return string(u)
}

// TemperatureSuffix returns the letter printed after the degree sign.
func (u UnitSystem) TemperatureSuffix() string {
	switch u {
	case Metric:
		return "C"
	case Imperial:
		return "F"
	default:
		return "K"
	}
}

func (u UnitSystem) SpeedSuffix() string {
	if u == Imperial {
		return "mi/hr"
	}
	return "m/s"
}

// WeatherReport is the typed result of one current-weather lookup.
type WeatherReport struct {
	ConditionDescription string
	Temperature          float64
	HumidityPercent      float64
	PressureHPa          float64
	WindSpeed            float64
	LocationName         string
}

// ConditionClass is the presentation category derived from a condition description.
type ConditionClass int

const (
	Neutral ConditionClass = iota
	Sunny
	Cloudy
	Hazy
	Precipitation
)

func (c ConditionClass) String() string {
	switch c {
	case Sunny:
		return "sunny"
	case Cloudy:
		return "cloudy"
	case Hazy:
		return "hazy"
	case Precipitation:
		return "precipitation"
	default:
		return "neutral"
	}
}
