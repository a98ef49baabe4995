package service

import (
	"context"
	"errors"

	"github.com/fakhrymubarak/weather-station/internal/config"
	"github.com/fakhrymubarak/weather-station/internal/model"
	"github.com/fakhrymubarak/weather-station/internal/report"
	"github.com/fakhrymubarak/weather-station/internal/repository"
)

// ErrNoRepository is returned when the service was built without a repository.
var ErrNoRepository = errors.New("weather repository not configured")

// WeatherServiceInterface is what the interactive shell depends on.
type WeatherServiceInterface interface {
	GetWeather(ctx context.Context, query model.LocationQuery, units model.UnitSystem) (*model.WeatherReport, error)
	GetReport(ctx context.Context, query model.LocationQuery, units model.UnitSystem) (report.StyledText, error)
}

type WeatherService struct {
	WeatherRepo repository.WeatherRepository
}

// NewWeatherService creates a new weather service instance
func NewWeatherService(repo repository.WeatherRepository) *WeatherService {
	return &WeatherService{
		WeatherRepo: repo,
	}
}

// GetWeather fetches the current weather for query.
func (s *WeatherService) GetWeather(ctx context.Context, query model.LocationQuery, units model.UnitSystem) (*model.WeatherReport, error) {
	if s.WeatherRepo == nil {
		return nil, ErrNoRepository
	}

	log := config.GetLogger()
	log.Debugw("Fetching weather", "city", query.City, "state", query.StateCode, "country", query.CountryCode, "units", units)

	weather, err := s.WeatherRepo.GetWeather(ctx, query, units)
	if err != nil {
		// The shell prints the error itself.
		log.Debugw("Weather lookup failed", "city", query.City, "error", err)
		return nil, err
	}
	return weather, nil
}

// GetReport fetches the weather and formats it for display.
func (s *WeatherService) GetReport(ctx context.Context, query model.LocationQuery, units model.UnitSystem) (report.StyledText, error) {
	weather, err := s.GetWeather(ctx, query, units)
	if err != nil {
		return report.StyledText{}, err
	}
	styled := report.Format(*weather, query.StateCode, units)
	config.GetLogger().Debugw("Formatted report", "location", weather.LocationName, "class", styled.Class)
	return styled, nil
}
