package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fakhrymubarak/weather-station/internal/config"
	"github.com/fakhrymubarak/weather-station/internal/model"
)

// ErrLocationNotFound is wrapped by the TransportError of a 404 answer.
// ErrMissingConditionData is wrapped by the ParseError of an empty weather list.
var (
	ErrLocationNotFound     = errors.New("location not found")
	ErrMissingConditionData = model.ErrMissingConditionData
)

// TransportError covers everything between building the request and receiving
// a 2xx response: DNS, connection and TLS failures, and non-2xx statuses.
type TransportError struct {
	StatusCode int    // zero when no response was received
	Message    string // provider message from the error body, if any
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("HTTP status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP status %d: %v", e.StatusCode, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError means the provider answered 2xx but the body was not valid JSON
// or did not have the expected shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WeatherRepository defines the interface for weather data access
type WeatherRepository interface {
	GetWeather(ctx context.Context, query model.LocationQuery, units model.UnitSystem) (*model.WeatherReport, error)
}

// weatherRepository implements WeatherRepository
type weatherRepository struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewWeatherRepository creates a new weather repository instance
func NewWeatherRepository(cfg config.OpenWeatherMap, httpClient ...*http.Client) WeatherRepository {
	client := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &weatherRepository{
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		httpClient: client,
	}
}

// GetWeather performs a single current-weather lookup. Failures are returned
// as *TransportError or *ParseError and are never retried.
func (r *weatherRepository) GetWeather(ctx context.Context, query model.LocationQuery, units model.UnitSystem) (*model.WeatherReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.requestURL(query, units), nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var data model.OpenWeatherMapResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &ParseError{Err: err}
	}

	weather, err := data.ToReport()
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return weather, nil
}

// requestURL joins the endpoint and the query parameters as plain text. The
// location parts are not escaped, so '&', '=' or '#' inside them change the
// query the provider sees.
func (r *weatherRepository) requestURL(query model.LocationQuery, units model.UnitSystem) string {
	raw := r.apiURL +
		"?q=" + query.City + "," + query.StateCode + "," + query.CountryCode +
		"&units=" + units.String() +
		"&appid=" + r.apiKey
	return encodeUnsafeBytes(raw)
}

// encodeUnsafeBytes percent-encodes the bytes a URL parser encodes on its own
// (controls, space, quotes, angle brackets and non-ASCII) and leaves all
// delimiters alone.
func encodeUnsafeBytes(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c <= ' ', c >= 0x7f, c == '"', c == '<', c == '>', c == '`':
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func statusError(resp *http.Response) error {
	err := &TransportError{
		StatusCode: resp.StatusCode,
		Err:        fmt.Errorf("unexpected status %s", resp.Status),
	}
	if resp.StatusCode == http.StatusNotFound {
		err.Err = ErrLocationNotFound
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if readErr != nil {
		return err
	}
	var apiErr model.APIError
	if json.Unmarshal(body, &apiErr) == nil {
		err.Message = apiErr.Message
	}
	return err
}
