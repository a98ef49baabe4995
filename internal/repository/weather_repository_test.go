package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fakhrymubarak/weather-station/internal/config"
	"github.com/fakhrymubarak/weather-station/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey   = "test-key"
	austinResult = `{"weather":[{"description":"clear sky"}],"main":{"temp":21.4,"humidity":55.0,"pressure":1012.0},"wind":{"speed":3.2},"name":"Austin"}`
)

var austin = model.LocationQuery{City: "Austin", StateCode: "TX", CountryCode: "US"}

func newTestRepository(apiURL string, httpClient ...*http.Client) WeatherRepository {
	return NewWeatherRepository(config.OpenWeatherMap{APIURL: apiURL, APIKey: testAPIKey}, httpClient...)
}

func TestNewWeatherRepository(t *testing.T) {
	repo := NewWeatherRepository(config.OpenWeatherMap{})
	if repo == nil {
		t.Error("Expected repository to be created")
	}
	if r := repo.(*weatherRepository); r.httpClient != http.DefaultClient {
		t.Error("Expected default HTTP client when none is given")
	}
}

func TestGetWeather_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "q=Austin,TX,US&units=metric&appid=test-key", r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, austinResult)
	}))
	defer srv.Close()

	got, err := newTestRepository(srv.URL).GetWeather(context.Background(), austin, model.Metric)
	require.NoError(t, err)
	assert.Equal(t, &model.WeatherReport{
		ConditionDescription: "clear sky",
		Temperature:          21.4,
		HumidityPercent:      55,
		PressureHPa:          1012,
		WindSpeed:            3.2,
		LocationName:         "Austin",
	}, got)
}

func TestGetWeather_UnitsParameter(t *testing.T) {
	for _, units := range []model.UnitSystem{model.Metric, model.Imperial, model.Standard} {
		t.Run(units.String(), func(t *testing.T) {
			var seen string
			client := newMockHTTPClient(func(req *http.Request) *http.Response {
				seen = req.URL.Query().Get("units")
				return jsonResponse(http.StatusOK, austinResult)
			})

			_, err := newTestRepository("http://owm.test/data/2.5/weather", client).GetWeather(context.Background(), austin, units)
			require.NoError(t, err)
			assert.Equal(t, units.String(), seen)
		})
	}
}

func TestGetWeather_SpacesInCity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "New York,NY,US", r.URL.Query().Get("q"))
		fmt.Fprint(w, austinResult)
	}))
	defer srv.Close()

	query := model.LocationQuery{City: "New York", StateCode: "NY", CountryCode: "US"}
	_, err := newTestRepository(srv.URL).GetWeather(context.Background(), query, model.Imperial)
	require.NoError(t, err)
}

// Location parts are concatenated verbatim, so an ampersand splits the query.
func TestGetWeather_DelimitersAreNotEscaped(t *testing.T) {
	var q, extra string
	client := newMockHTTPClient(func(req *http.Request) *http.Response {
		q = req.URL.Query().Get("q")
		extra = req.URL.Query().Get("b")
		return jsonResponse(http.StatusOK, austinResult)
	})

	query := model.LocationQuery{City: "A&b=c", StateCode: "TX", CountryCode: "US"}
	_, err := newTestRepository("http://owm.test/weather", client).GetWeather(context.Background(), query, model.Metric)
	require.NoError(t, err)
	assert.Equal(t, "A", q)
	assert.Equal(t, "c,TX,US", extra)
}

func TestGetWeather_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"cod": "404", "message": "city not found"}`)
	}))
	defer srv.Close()

	_, err := newTestRepository(srv.URL).GetWeather(context.Background(), austin, model.Metric)
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr), "expected TransportError, got %T", err)
	assert.Equal(t, http.StatusNotFound, transportErr.StatusCode)
	assert.Equal(t, "city not found", transportErr.Message)
	assert.True(t, errors.Is(err, ErrLocationNotFound))
	assert.Equal(t, "HTTP status 404: city not found", err.Error())
}

func TestGetWeather_Unauthorized(t *testing.T) {
	client := newMockHTTPClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusUnauthorized, `{"cod": 401, "message": "Invalid API key"}`)
	})

	_, err := newTestRepository("http://owm.test/weather", client).GetWeather(context.Background(), austin, model.Metric)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "Invalid API key", transportErr.Message)
	assert.False(t, errors.Is(err, ErrLocationNotFound))
}

func TestGetWeather_ServerErrorWithoutJSON(t *testing.T) {
	client := newMockHTTPClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusInternalServerError, "internal server error")
	})

	_, err := newTestRepository("http://owm.test/weather", client).GetWeather(context.Background(), austin, model.Metric)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusInternalServerError, transportErr.StatusCode)
	assert.Empty(t, transportErr.Message)
	assert.Contains(t, err.Error(), "HTTP status 500")
}

func TestGetWeather_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestRepository(url).GetWeather(context.Background(), austin, model.Metric)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr), "expected TransportError, got %T", err)
	assert.Zero(t, transportErr.StatusCode)
	assert.Contains(t, err.Error(), "request failed")
}

func TestGetWeather_MalformedEndpoint(t *testing.T) {
	called := false
	client := newMockHTTPClient(func(req *http.Request) *http.Response {
		called = true
		return jsonResponse(http.StatusOK, austinResult)
	})

	_, err := newTestRepository("://owm.test/weather", client).GetWeather(context.Background(), austin, model.Metric)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.False(t, called, "no request should be sent for an unparsable target")
}

func TestGetWeather_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"not json", "not-json", "invalid character"},
		{"wrong type", `{"weather":[{"description":"rain"}],"main":{"temp":"hot","humidity":1,"pressure":1},"wind":{"speed":1},"name":"X"}`, "cannot unmarshal string"},
		{"missing wind", `{"weather":[{"description":"rain"}],"main":{"temp":1,"humidity":1,"pressure":1},"name":"X"}`, "missing field `wind`"},
		{"empty object", `{}`, "missing field `weather`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockHTTPClient(func(req *http.Request) *http.Response {
				return jsonResponse(http.StatusOK, tt.body)
			})

			_, err := newTestRepository("http://owm.test/weather", client).GetWeather(context.Background(), austin, model.Metric)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected ParseError, got %T", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestGetWeather_EmptyWeatherList(t *testing.T) {
	client := newMockHTTPClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, `{"weather":[],"main":{"temp":21.4,"humidity":55,"pressure":1012},"wind":{"speed":3.2},"name":"Austin"}`)
	})

	report, err := newTestRepository("http://owm.test/weather", client).GetWeather(context.Background(), austin, model.Metric)
	assert.Nil(t, report)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.True(t, errors.Is(err, ErrMissingConditionData))
	assert.Contains(t, err.Error(), "missing condition data")
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Err: model.ErrMissingConditionData}
	assert.Equal(t, "unexpected response: missing condition data", err.Error())
}

func TestGetWeather_NilContext(t *testing.T) {
	client := newMockHTTPClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, austinResult)
	})

	var ctx context.Context
	got, err := newTestRepository("http://owm.test/weather", client).GetWeather(ctx, austin, model.Metric)
	require.NoError(t, err)
	assert.Equal(t, "Austin", got.LocationName)
}

func TestRequestURL(t *testing.T) {
	r := newTestRepository("https://api.openweathermap.org/data/2.5/weather").(*weatherRepository)

	got := r.requestURL(model.LocationQuery{City: "São Paulo", StateCode: "SP", CountryCode: "BR"}, model.Standard)
	want := "https://api.openweathermap.org/data/2.5/weather?q=S%C3%A3o%20Paulo,SP,BR&units=standard&appid=test-key"
	assert.Equal(t, want, got)
}

func TestEncodeUnsafeBytes(t *testing.T) {
	assert.Equal(t, "a%20b%22%3C%3E", encodeUnsafeBytes(`a b"<>`))
	assert.Equal(t, "x&y=z#w%41", encodeUnsafeBytes("x&y=z#w%41"))
	assert.Equal(t, "%09%7F", encodeUnsafeBytes("\t\x7f"))
}
