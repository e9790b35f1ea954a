package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owmBody = `{
  "name": "Bangkok",
  "main": {"temp": 31.4, "humidity": 66, "pressure": 1008},
  "wind": {"speed": 3.1},
  "weather": [{"description": "scattered clouds", "icon": "03d"}],
  "sys": {"sunrise": 1700000000, "sunset": 1700043000}
}`

func TestClient_Current(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		q := r.URL.Query()
		query = map[string]string{"q": q.Get("q"), "units": q.Get("units"), "appid": q.Get("appid")}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(owmBody))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "k").Current(context.Background(), "bangkok")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"q": "bangkok", "units": "metric", "appid": "k"}, query)
	assert.Equal(t, "Bangkok", c.Location)
	assert.Equal(t, 31.4, c.Temperature)
	assert.Equal(t, 66.0, c.Humidity)
	assert.Equal(t, 3.1, c.WindSpeed)
	assert.Equal(t, "03d", c.Icon)
	assert.Equal(t, int64(1700000000), c.Sunrise.Unix())
}

func TestClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("q") == "atlantis" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").Current(context.Background(), "atlantis")
	assert.ErrorIs(t, err, ErrLocationNotFound)

	_, err = NewClient(srv.URL, "k").Current(context.Background(), "paris")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")

	_, err = NewClient(srv.URL, "").Current(context.Background(), "paris")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

// Bangkok is UTC+7: local 10:00, 13:00 and 22:00 on the 15th, then 04:00 and 10:00 on the 16th.
const owmForecastBody = `{
  "city": {"name": "Bangkok", "timezone": 25200},
  "list": [
    {"dt": 1700017200, "main": {"temp": 29.0, "humidity": 70}, "weather": [{"description": "few clouds", "icon": "02d"}]},
    {"dt": 1700028000, "main": {"temp": 32.5, "humidity": 60}, "weather": [{"description": "scattered clouds", "icon": "03d"}]},
    {"dt": 1700060400, "main": {"temp": 26.1, "humidity": 85}, "weather": [{"description": "light rain", "icon": "10n"}]},
    {"dt": 1700082000, "main": {"temp": 24.8, "humidity": 90}, "weather": [{"description": "clear sky", "icon": "01n"}]},
    {"dt": 1700103600, "main": {"temp": 30.2, "humidity": 65}, "weather": [{"description": "broken clouds", "icon": "04d"}]}
  ]
}`

func forecastServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/forecast", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "k", r.URL.Query().Get("appid"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("q") == "atlantis" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
			return
		}
		_, _ = w.Write([]byte(owmForecastBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Forecast(t *testing.T) {
	srv := forecastServer(t)

	f, err := NewClient(srv.URL, "k").Forecast(context.Background(), "bangkok")
	require.NoError(t, err)
	assert.Equal(t, "Bangkok", f.Location)
	assert.Equal(t, 25200, f.TimezoneOffset)
	require.Len(t, f.Hours, 5)
	assert.Equal(t, time.Unix(1700017200, 0).UTC(), f.Hours[0].Time)
	assert.Equal(t, 85.0, f.Hours[2].Humidity)
	assert.Equal(t, "02d", f.Hours[0].Icon)

	require.Len(t, f.Days, 2)
	assert.Equal(t, ForecastDay{Date: "2023-11-15", MinTemp: 26.1, MaxTemp: 32.5, Description: "scattered clouds", Icon: "03d"}, f.Days[0])
	assert.Equal(t, ForecastDay{Date: "2023-11-16", MinTemp: 24.8, MaxTemp: 30.2, Description: "broken clouds", Icon: "04d"}, f.Days[1])

	_, err = NewClient(srv.URL, "k").Forecast(context.Background(), "atlantis")
	assert.ErrorIs(t, err, ErrLocationNotFound)
	_, err = NewClient(srv.URL, "").Forecast(context.Background(), "bangkok")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
