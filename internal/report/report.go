// Package report renders a weather report as condition-styled terminal text.
package report

import (
	"fmt"

	"github.com/gookit/color"

	"github.com/fakhrymubarak/weather-station/internal/model"
)

// conditionClasses maps provider descriptions to presentation classes.
// Matching is exact and case-sensitive; unknown descriptions are Neutral.
var conditionClasses = map[string]model.ConditionClass{
	"clear sky": model.Sunny,

	"few clouds":       model.Cloudy,
	"scattered clouds": model.Cloudy,
	"broken clouds":    model.Cloudy,

	"overcast clouds": model.Hazy,
	"mist":            model.Hazy,
	"haze":            model.Hazy,
	"smoke":           model.Hazy,
	"sand":            model.Hazy,
	"dust":            model.Hazy,
	"fog":             model.Hazy,
	"squalls":         model.Hazy,

	"shower rain":  model.Precipitation,
	"rain":         model.Precipitation,
	"thunderstorm": model.Precipitation,
	"snow":         model.Precipitation,
}

var classStyles = map[model.ConditionClass]color.Style{
	model.Sunny:         color.New(color.FgLightYellow),
	model.Cloudy:        color.New(color.FgLightBlue),
	model.Hazy:          color.New(color.OpFuzzy),
	model.Precipitation: color.New(color.FgLightCyan),
}

// Classify returns the presentation class for a condition description.
func Classify(description string) model.ConditionClass {
	return conditionClasses[description]
}

// StyledText is formatted report text together with its presentation class.
type StyledText struct {
	Text  string
	Class model.ConditionClass
}

// String renders the text with the class style. Neutral text is returned as is.
func (s StyledText) String() string {
	style, ok := classStyles[s.Class]
	if !ok {
		return s.Text
	}
	return style.Sprint(s.Text)
}

// Format builds the multi-line summary for r. Numeric values are printed with
// one decimal and the suffixes of units.
func Format(r model.WeatherReport, stateCode string, units model.UnitSystem) StyledText {
	text := fmt.Sprintf(
		"Weather in %s, %s: %s\n"+
			"> Temperature: %.1f°%s\n"+
			"> Humidity: %.1f%%\n"+
			"> Pressure: %.1f hPa\n"+
			"> Wind Speed: %.1f %s",
		r.LocationName, stateCode, r.ConditionDescription,
		r.Temperature, units.TemperatureSuffix(),
		r.HumidityPercent,
		r.PressureHPa,
		r.WindSpeed, units.SpeedSuffix(),
	)
	return StyledText{
		Text:  text,
		Class: Classify(r.ConditionDescription),
	}
}
