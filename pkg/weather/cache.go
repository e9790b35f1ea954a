package weather

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache keeps the last good conditions and forecast per location key.
type Cache interface {
	Name() string
	Get(ctx context.Context, key string) (Conditions, bool)
	Set(ctx context.Context, key string, c Conditions) error
	GetForecast(ctx context.Context, key string) (Forecast, bool)
	SetForecast(ctx context.Context, key string, f Forecast) error
}

type memEntry struct {
	cond     Conditions
	storedAt time.Time
}

type memForecast struct {
	fc       Forecast
	storedAt time.Time
}

type memoryCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	data      map[string]memEntry
	forecasts map[string]memForecast
}

func NewMemoryCache(ttl time.Duration) Cache {
	return &memoryCache{ttl: ttl, data: map[string]memEntry{}, forecasts: map[string]memForecast{}}
}

func (m *memoryCache) expired(storedAt time.Time) bool {
	return m.ttl > 0 && time.Since(storedAt) > m.ttl
}

func (m *memoryCache) Name() string { return "memory" }

func (m *memoryCache) Get(_ context.Context, key string) (Conditions, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[key]
	if !ok || m.expired(e.storedAt) {
		return Conditions{}, false
	}
	return e.cond, true
}

func (m *memoryCache) Set(_ context.Context, key string, c Conditions) error {
	m.mu.Lock()
	m.data[key] = memEntry{cond: c, storedAt: time.Now()}
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) GetForecast(_ context.Context, key string) (Forecast, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.forecasts[key]
	if !ok || m.expired(e.storedAt) {
		return Forecast{}, false
	}
	return e.fc, true
}

func (m *memoryCache) SetForecast(_ context.Context, key string, f Forecast) error {
	m.mu.Lock()
	m.forecasts[key] = memForecast{fc: f, storedAt: time.Now()}
	m.mu.Unlock()
	return nil
}

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) Cache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

func (r *redisCache) Name() string { return "redis" }

func redisKey(key string) string { return "greenhouse:weather:" + key }

func redisForecastKey(key string) string { return "greenhouse:forecast:" + key }

func (r *redisCache) load(ctx context.Context, key string, v any) bool {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, v) == nil
}

func (r *redisCache) store(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key, b, r.ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string) (Conditions, bool) {
	var c Conditions
	if !r.load(ctx, redisKey(key), &c) {
		return Conditions{}, false
	}
	return c, true
}

func (r *redisCache) Set(ctx context.Context, key string, c Conditions) error {
	return r.store(ctx, redisKey(key), c)
}

func (r *redisCache) GetForecast(ctx context.Context, key string) (Forecast, bool) {
	var f Forecast
	if !r.load(ctx, redisForecastKey(key), &f) {
		return Forecast{}, false
	}
	return f, true
}

func (r *redisCache) SetForecast(ctx context.Context, key string, f Forecast) error {
	return r.store(ctx, redisForecastKey(key), f)
}
