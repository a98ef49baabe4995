package model

import (
	"errors"
	"fmt"
)

// ErrMissingConditionData is returned when the provider sends an empty weather list.
var ErrMissingConditionData = errors.New("missing condition data")

// OpenWeatherMapResponse is the subset of the current-weather payload we read.
// Required values are pointers so a missing field can be told apart from zero.
type OpenWeatherMapResponse struct {
	Name *string `json:"name"`
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
		Pressure *float64 `json:"pressure"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description *string `json:"description"`
	} `json:"weather"`
}

// ToReport converts the payload into a WeatherReport, failing on the first
// missing required field.
func (r *OpenWeatherMapResponse) ToReport() (*WeatherReport, error) {
	if r.Weather == nil {
		return nil, missingField("weather")
	}
	if len(r.Weather) == 0 {
		return nil, ErrMissingConditionData
	}
	if r.Weather[0].Description == nil {
		return nil, missingField("weather[0].description")
	}
	if r.Main == nil {
		return nil, missingField("main")
	}
	if r.Main.Temp == nil {
		return nil, missingField("main.temp")
	}
	if r.Main.Humidity == nil {
		return nil, missingField("main.humidity")
	}
	if r.Main.Pressure == nil {
		return nil, missingField("main.pressure")
	}
	if r.Wind == nil {
		return nil, missingField("wind")
	}
	if r.Wind.Speed == nil {
		return nil, missingField("wind.speed")
	}
	if r.Name == nil {
		return nil, missingField("name")
	}

	return &WeatherReport{
		ConditionDescription: *r.Weather[0].Description,
		Temperature:          *r.Main.Temp,
		HumidityPercent:      *r.Main.Humidity,
		PressureHPa:          *r.Main.Pressure,
		WindSpeed:            *r.Wind.Speed,
		LocationName:         *r.Name,
	}, nil
}

func missingField(name string) error {
	return fmt.Errorf("missing field `%s`", name)
}

// APIError is the body OpenWeatherMap sends with a non-2xx status.
type APIError struct {
	Cod     any    `json:"cod"` // number or string depending on the endpoint
	Message string `json:"message"`
}
