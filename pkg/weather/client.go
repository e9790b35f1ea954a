package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrNoAPIKey         = errors.New("weather: no api key configured")
	ErrLocationNotFound = errors.New("weather: location not found")
)

// Conditions is what the upstream reports for one place.
type Conditions struct {
	Location    string    `json:"location"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Pressure    float64   `json:"pressure"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Sunrise     time.Time `json:"sunrise"`
	Sunset      time.Time `json:"sunset"`
	FetchedAt   time.Time `json:"fetched_at"`
}

type Client interface {
	Current(ctx context.Context, location string) (Conditions, error)
	Forecast(ctx context.Context, location string) (Forecast, error)
}

type owmResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

type owmError struct {
	Message string `json:"message"`
}

type owmClient struct {
	http *resty.Client
	key  string
}

// NewClient calls the OpenWeatherMap current-conditions and 5 day forecast
// endpoints in metric units.
func NewClient(endpoint, apiKey string) Client {
	c := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json")
	return &owmClient{http: c, key: apiKey}
}

func (c *owmClient) Current(ctx context.Context, location string) (Conditions, error) {
	if c.key == "" {
		return Conditions{}, ErrNoAPIKey
	}
	var out owmResponse
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParams(map[string]string{"q": location, "units": "metric", "appid": c.key}).
		SetResult(&out).SetError(&owmError{}).
		Get("/data/2.5/weather")
	if err := upstreamErr(resp, err, location); err != nil {
		return Conditions{}, err
	}

	cond := Conditions{
		Location:    out.Name,
		Temperature: out.Main.Temp,
		Humidity:    out.Main.Humidity,
		WindSpeed:   out.Wind.Speed,
		Pressure:    out.Main.Pressure,
		FetchedAt:   time.Now().UTC(),
	}
	if cond.Location == "" {
		cond.Location = location
	}
	if len(out.Weather) > 0 {
		cond.Description = out.Weather[0].Description
		cond.Icon = out.Weather[0].Icon
	}
	if out.Sys.Sunrise > 0 {
		cond.Sunrise = time.Unix(out.Sys.Sunrise, 0).UTC()
	}
	if out.Sys.Sunset > 0 {
		cond.Sunset = time.Unix(out.Sys.Sunset, 0).UTC()
	}
	return cond, nil
}

func upstreamErr(resp *resty.Response, err error, location string) error {
	if err != nil {
		return fmt.Errorf("weather: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: %q", ErrLocationNotFound, location)
	}
	if resp.IsError() {
		msg := resp.Status()
		if e, ok := resp.Error().(*owmError); ok && e.Message != "" {
			msg = e.Message
		}
		return fmt.Errorf("weather: upstream %d: %s", resp.StatusCode(), msg)
	}
	return nil
}
