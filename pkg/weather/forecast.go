package weather

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ForecastStep is the forecast upstream's resolution.
const ForecastStep = 3 * time.Hour

type ForecastHour struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}

type ForecastDay struct {
	Date        string  `json:"date"`
	MinTemp     float64 `json:"min_temp"`
	MaxTemp     float64 `json:"max_temp"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// Forecast is a 3-hourly series plus its per-day summary in the location's
// own calendar. TimezoneOffset is seconds east of UTC.
type Forecast struct {
	Location       string         `json:"location"`
	TimezoneOffset int            `json:"timezone_offset"`
	Hours          []ForecastHour `json:"hours"`
	Days           []ForecastDay  `json:"days"`
	FetchedAt      time.Time      `json:"fetched_at"`
}

type ForecastReport struct {
	Forecast
	Source    Source `json:"source"`
	Stale     bool   `json:"stale"`
	Synthetic bool   `json:"synthetic"`
	Error     string `json:"error,omitempty"`
}

type owmForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

func (c *owmClient) Forecast(ctx context.Context, location string) (Forecast, error) {
	if c.key == "" {
		return Forecast{}, ErrNoAPIKey
	}
	var out owmForecast
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParams(map[string]string{"q": location, "units": "metric", "appid": c.key}).
		SetResult(&out).SetError(&owmError{}).
		Get("/data/2.5/forecast")
	if err := upstreamErr(resp, err, location); err != nil {
		return Forecast{}, err
	}

	f := Forecast{Location: out.City.Name, TimezoneOffset: out.City.Timezone, FetchedAt: time.Now().UTC()}
	if f.Location == "" {
		f.Location = location
	}
	for _, e := range out.List {
		h := ForecastHour{Time: time.Unix(e.Dt, 0).UTC(), Temperature: e.Main.Temp, Humidity: e.Main.Humidity}
		if len(e.Weather) > 0 {
			h.Description = e.Weather[0].Description
			h.Icon = e.Weather[0].Icon
		}
		f.Hours = append(f.Hours, h)
	}
	f.Days = daily(f.Hours, time.FixedZone("", f.TimezoneOffset))
	return f, nil
}

// daily folds hours into calendar days of loc, keeping input order. A day's
// description comes from the step nearest local noon.
func daily(hours []ForecastHour, loc *time.Location) []ForecastDay {
	var days []ForecastDay
	noonGap := 0
	for _, h := range hours {
		local := h.Time.In(loc)
		date := local.Format("2006-01-02")
		gap := local.Hour() - 12
		if gap < 0 {
			gap = -gap
		}
		n := len(days)
		if n == 0 || days[n-1].Date != date {
			days = append(days, ForecastDay{Date: date, MinTemp: h.Temperature, MaxTemp: h.Temperature, Description: h.Description, Icon: h.Icon})
			noonGap = gap
			continue
		}
		d := &days[n-1]
		d.MinTemp = min(d.MinTemp, h.Temperature)
		d.MaxTemp = max(d.MaxTemp, h.Temperature)
		if gap < noonGap {
			d.Description, d.Icon, noonGap = h.Description, h.Icon, gap
		}
	}
	return days
}

// Forecast degrades the same way Current does: fresh cache, live, last known,
// then a synthetic five day series.
func (s *Service) Forecast(ctx context.Context, location string) ForecastReport {
	location = strings.TrimSpace(location)
	if location == "" {
		location = s.opts.DefaultLocation
	}
	key := cacheKey(location)

	if f, ok := s.cache.GetForecast(ctx, key); ok && time.Since(f.FetchedAt) < s.opts.FreshFor {
		return report(f, Cached, nil)
	}
	f, err := s.fetchForecast(ctx, location)
	if err == nil {
		return report(f, Live, nil)
	}
	if last, ok := s.cache.GetForecast(ctx, key); ok {
		return report(last, Stale, err)
	}
	return report(s.syntheticForecast(location, time.Now().UTC()), Synthetic, err)
}

func report(f Forecast, src Source, err error) ForecastReport {
	r := ForecastReport{Forecast: f, Source: src, Stale: src == Stale, Synthetic: src == Synthetic}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

func (s *Service) syntheticForecast(location string, now time.Time) Forecast {
	f := Forecast{Location: location, FetchedAt: now}
	start := now.Truncate(ForecastStep).Add(ForecastStep)
	for i := 0; i < 40; i++ {
		f.Hours = append(f.Hours, ForecastHour{
			Time:        start.Add(time.Duration(i) * ForecastStep),
			Temperature: s.uniform(25, 2.5),
			Humidity:    s.uniform(60, 5),
			Description: "unavailable",
		})
	}
	f.Days = daily(f.Hours, time.UTC)
	return f
}

func (s *Service) fetchForecast(ctx context.Context, location string) (Forecast, error) {
	key := cacheKey(location)
	v, err, _ := s.sf.Do("forecast|"+key, func() (any, error) {
		f, err := s.client.Forecast(ctx, location)
		if err != nil {
			if !errors.Is(err, ErrNoAPIKey) {
				s.log.Warn("forecast fetch failed", zap.String("location", location), zap.Error(err))
			}
			return Forecast{}, err
		}
		if err := s.cache.SetForecast(ctx, key, f); err != nil {
			s.log.Warn("cache set failed", zap.String("cache", s.cache.Name()), zap.Error(err))
		}
		return f, nil
	})
	if err != nil {
		return Forecast{}, err
	}
	return v.(Forecast), nil
}
