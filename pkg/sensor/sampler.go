package sensor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"greenhouse/entities"
	"greenhouse/pkg/climate"
	"greenhouse/pkg/sensor/repository"
)

// Broadcaster pushes a message to live dashboards.
type Broadcaster interface {
	Broadcast(v any)
}

// Update is the message streamed for each sample.
type Update struct {
	Type       string                 `json:"type"`
	Reading    entities.SensorReading `json:"reading"`
	Assessment climate.Assessment     `json:"assessment"`
	Alerts     []entities.Alert       `json:"alerts,omitempty"`
}

type Sampler struct {
	src    Source
	eval   *climate.Evaluator
	repo   repository.SensorRepository
	sinks  []Sink
	out    Broadcaster
	alerts *Alerter
	log    *zap.Logger
	now    func() time.Time
	keep   time.Duration
}

func NewSampler(src Source, eval *climate.Evaluator, repo repository.SensorRepository, alerts *Alerter, out Broadcaster, log *zap.Logger, sinks ...Sink) *Sampler {
	return &Sampler{
		src: src, eval: eval, repo: repo, sinks: sinks, out: out, alerts: alerts,
		log: log.Named("sampler"), now: time.Now, keep: 7 * 24 * time.Hour,
	}
}

// Sample reads, stores, forwards and checks one reading.
func (s *Sampler) Sample(ctx context.Context) (Update, error) {
	r, err := s.src.Read(ctx)
	if err != nil {
		return Update{}, err
	}
	rec := entities.SensorReading{
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		CO2:         r.CO2,
		RecordedAt:  s.now().UTC(),
	}
	if err := s.repo.SaveReading(ctx, &rec); err != nil {
		return Update{}, err
	}
	a := s.eval.Assess(r)
	for _, sink := range s.sinks {
		if err := sink.Write(ctx, rec, a); err != nil {
			s.log.Warn("sink write", zap.Error(err))
		}
	}
	u := Update{Type: "reading", Reading: rec, Assessment: a}
	if s.alerts != nil {
		u.Alerts = s.alerts.Check(ctx, a, rec.RecordedAt)
	}
	if s.out != nil {
		s.out.Broadcast(u)
	}
	return u, nil
}

// Job adapts Sample for the scheduler and prunes old rows once an hour.
func (s *Sampler) Job() func(ctx context.Context) {
	var lastPrune time.Time
	return func(ctx context.Context) {
		if _, err := s.Sample(ctx); err != nil {
			s.log.Warn("sample failed", zap.Error(err))
			return
		}
		if now := s.now(); now.Sub(lastPrune) > time.Hour {
			lastPrune = now
			if n, err := s.repo.Prune(ctx, now.Add(-s.keep)); err != nil {
				s.log.Warn("prune readings", zap.Error(err))
			} else if n > 0 {
				s.log.Info("pruned readings", zap.Int64("rows", n))
			}
		}
	}
}

// Close releases the sinks.
func (s *Sampler) Close() {
	for _, sink := range s.sinks {
		sink.Close()
	}
}
