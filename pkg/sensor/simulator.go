// Package sensor samples greenhouse climate, stores it, streams it to
// dashboards and raises alerts.
package sensor

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"greenhouse/pkg/climate"
)

// Source produces one reading per call.
type Source interface {
	Read(ctx context.Context) (climate.Reading, error)
}

// Simulator jitters around a fixed baseline. It stands in for real hardware.
type Simulator struct {
	Base   climate.Reading
	Jitter climate.Reading

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulator(rnd *rand.Rand) *Simulator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		Base:   climate.Reading{Temperature: 27.5, Humidity: 62, CO2: 780},
		Jitter: climate.Reading{Temperature: 0.3, Humidity: 1, CO2: 10},
		rnd:    rnd,
	}
}

func (s *Simulator) Read(ctx context.Context) (climate.Reading, error) {
	if err := ctx.Err(); err != nil {
		return climate.Reading{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	j := func(base, spread float64) float64 { return base + (s.rnd.Float64()*2-1)*spread }
	return climate.Reading{
		Temperature: j(s.Base.Temperature, s.Jitter.Temperature),
		Humidity:    j(s.Base.Humidity, s.Jitter.Humidity),
		CO2:         j(s.Base.CO2, s.Jitter.CO2),
	}, nil
}
