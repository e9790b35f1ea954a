package sensor

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"greenhouse/entities"
	"greenhouse/pkg/climate"
	"greenhouse/pkg/notify"
	"greenhouse/pkg/sensor/repository"
)

var units = map[climate.Metric]string{
	climate.Temperature: "°C",
	climate.Humidity:    "%",
	climate.CO2:         " ppm",
}

var labels = map[climate.Metric]string{
	climate.Temperature: "Temperature",
	climate.Humidity:    "Humidity",
	climate.CO2:         "CO2",
}

// Alerter raises an alert when a metric moves into a worse tier. Staying in
// the same tier is silent; recovering to normal re-arms it.
type Alerter struct {
	repo     repository.SensorRepository
	notifier notify.Notifier
	log      *zap.Logger

	mu   sync.Mutex
	last map[climate.Metric]climate.Tier
}

func NewAlerter(repo repository.SensorRepository, n notify.Notifier, log *zap.Logger) *Alerter {
	return &Alerter{repo: repo, notifier: n, log: log.Named("alerts"), last: map[climate.Metric]climate.Tier{}}
}

func describe(s climate.Status) (string, string) {
	dir := "High"
	if s.Direction == climate.Low {
		dir = "Low"
	}
	title := fmt.Sprintf("%s %s", dir, labels[s.Metric])
	if math.IsNaN(s.Value) {
		return "Unreadable " + labels[s.Metric], fmt.Sprintf("%s sensor returned no value.", labels[s.Metric])
	}
	desc := fmt.Sprintf("%s is %.1f%s, %s %s.", labels[s.Metric], s.Value, units[s.Metric],
		strings.ToLower(dir), map[climate.Tier]string{climate.Warning: "of optimal", climate.Critical: "and critical"}[s.Tier])
	return title, desc
}

// Check returns the alerts it stored.
func (a *Alerter) Check(ctx context.Context, as climate.Assessment, at time.Time) []entities.Alert {
	var raised []entities.Alert
	for _, m := range climate.Metrics() {
		s := as.Of(m)
		a.mu.Lock()
		prev, seen := a.last[m]
		a.last[m] = s.Tier
		a.mu.Unlock()
		if !seen {
			prev = climate.Normal
		}
		if s.Tier == climate.Normal || !s.Tier.Worse(prev) {
			continue
		}

		title, desc := describe(s)
		value := s.Value
		if math.IsNaN(value) {
			value = 0
		}
		alert := entities.Alert{Metric: string(m), Tier: string(s.Tier), Value: value, Title: title, Description: desc, CreatedAt: at}
		if err := a.repo.SaveAlert(ctx, &alert); err != nil {
			a.log.Warn("save alert", zap.String("metric", string(m)), zap.Error(err))
			continue
		}
		raised = append(raised, alert)
		if s.Tier == climate.Critical && a.notifier != nil {
			if err := a.notifier.Notify(ctx, alert); err != nil {
				a.log.Warn("notify", zap.Error(err))
			}
		}
	}
	return raised
}
