package weather

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"greenhouse/pkg/climate"
)

type Source string

const (
	Live      Source = "live"
	Cached    Source = "cached"
	Stale     Source = "stale"
	Synthetic Source = "synthetic"
)

// Snapshot is what the dashboard shows. CO2 is always synthesized since no
// upstream reports it.
type Snapshot struct {
	Conditions
	CO2        float64            `json:"co2"`
	Source     Source             `json:"source"`
	Stale      bool               `json:"stale"`
	Synthetic  bool               `json:"synthetic"`
	Error      string             `json:"error,omitempty"`
	Assessment climate.Assessment `json:"assessment"`
}

type Options struct {
	DefaultLocation string
	// FreshFor is how long a cached reading is served without asking upstream.
	FreshFor time.Duration
	Rand     *rand.Rand
}

type Service struct {
	client Client
	cache  Cache
	eval   *climate.Evaluator
	log    *zap.Logger
	opts   Options

	sf    singleflight.Group
	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewService(client Client, cache Cache, eval *climate.Evaluator, log *zap.Logger, opts Options) *Service {
	if opts.DefaultLocation == "" {
		opts.DefaultLocation = "New York"
	}
	if opts.FreshFor <= 0 {
		opts.FreshFor = 10 * time.Minute
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{client: client, cache: cache, eval: eval, log: log.Named("weather"), opts: opts, rnd: rnd}
}

func (s *Service) CacheName() string { return s.cache.Name() }

func (s *Service) DefaultLocation() string { return s.opts.DefaultLocation }

func cacheKey(location string) string {
	return strings.ToLower(strings.Join(strings.Fields(location), " "))
}

// uniform returns a value in [center-spread, center+spread].
func (s *Service) uniform(center, spread float64) float64 {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return center - spread + s.rnd.Float64()*2*spread
}

// co2 is simulated: 400-800 ppm beside a live reading, 500-800 once upstream has failed.
func (s *Service) co2(src Source) float64 {
	if src == Stale || src == Synthetic {
		return s.uniform(650, 150)
	}
	return s.uniform(600, 200)
}

func (s *Service) finish(c Conditions, src Source, err error) Snapshot {
	snap := Snapshot{
		Conditions: c,
		CO2:        s.co2(src),
		Source:     src,
		Stale:      src == Stale,
		Synthetic:  src == Synthetic,
	}
	if err != nil {
		snap.Error = err.Error()
	}
	snap.Assessment = s.eval.Assess(climate.Reading{Temperature: snap.Temperature, Humidity: snap.Humidity, CO2: snap.CO2})
	return snap
}

// Current never fails: upstream trouble degrades to the last known reading,
// then to synthetic values.
func (s *Service) Current(ctx context.Context, location string) Snapshot {
	location = strings.TrimSpace(location)
	if location == "" {
		location = s.opts.DefaultLocation
	}
	key := cacheKey(location)

	if c, ok := s.cache.Get(ctx, key); ok && time.Since(c.FetchedAt) < s.opts.FreshFor {
		return s.finish(c, Cached, nil)
	}

	c, err := s.fetch(ctx, location)
	if err == nil {
		return s.finish(c, Live, nil)
	}
	if last, ok := s.cache.Get(ctx, key); ok {
		return s.finish(last, Stale, err)
	}
	return s.finish(Conditions{
		Location:    location,
		Temperature: s.uniform(25, 2.5),
		Humidity:    s.uniform(60, 5),
		Description: "unavailable",
		FetchedAt:   time.Now().UTC(),
	}, Synthetic, err)
}

// Refresh pulls fresh conditions into the cache.
func (s *Service) Refresh(ctx context.Context, location string) error {
	_, err := s.fetch(ctx, location)
	return err
}

func (s *Service) fetch(ctx context.Context, location string) (Conditions, error) {
	key := cacheKey(location)
	v, err, _ := s.sf.Do(key, func() (any, error) {
		c, err := s.client.Current(ctx, location)
		if err != nil {
			if !errors.Is(err, ErrNoAPIKey) {
				s.log.Warn("fetch failed", zap.String("location", location), zap.Error(err))
			}
			return Conditions{}, err
		}
		if err := s.cache.Set(ctx, key, c); err != nil {
			s.log.Warn("cache set failed", zap.String("cache", s.cache.Name()), zap.Error(err))
		}
		return c, nil
	})
	if err != nil {
		return Conditions{}, err
	}
	return v.(Conditions), nil
}
