package climate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

type Metric string

const (
	Temperature Metric = "temperature"
	Humidity    Metric = "humidity"
	CO2         Metric = "co2"
)

type Tier string

const (
	Normal   Tier = "normal"
	Warning  Tier = "warning"
	Critical Tier = "critical"
)

// Direction says which side of the comfort band a reading fell out of.
type Direction string

const (
	None Direction = "none"
	Low  Direction = "low"
	High Direction = "high"
)

var (
	ErrUnknownMetric = errors.New("unknown metric")
	ErrBandOrder     = errors.New("threshold band out of order")
)

func Metrics() []Metric { return []Metric{Temperature, Humidity, CO2} }

func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case Temperature, Humidity, CO2:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

func (t Tier) Color() string {
	switch t {
	case Warning:
		return "yellow"
	case Critical:
		return "red"
	default:
		return "green"
	}
}

func (t Tier) rank() int {
	switch t {
	case Warning:
		return 1
	case Critical:
		return 2
	}
	return 0
}

// Worse reports whether t is more severe than o.
func (t Tier) Worse(o Tier) bool { return t.rank() > o.rank() }

// Band holds the four edges of a metric. Readings strictly outside an edge
// fall into that tier. Unbounded sides use infinities.
type Band struct {
	CriticalLow  float64
	WarningLow   float64
	WarningHigh  float64
	CriticalHigh float64
}

func (b Band) Valid() bool {
	return b.CriticalLow <= b.WarningLow && b.WarningLow <= b.WarningHigh && b.WarningHigh <= b.CriticalHigh
}

func (b Band) classify(v float64) (Tier, Direction) {
	switch {
	case math.IsNaN(v):
		return Critical, None
	case v < b.CriticalLow:
		return Critical, Low
	case v > b.CriticalHigh:
		return Critical, High
	case v < b.WarningLow:
		return Warning, Low
	case v > b.WarningHigh:
		return Warning, High
	}
	return Normal, None
}

type bandJSON struct {
	CriticalLow  *float64 `json:"critical_low"`
	WarningLow   *float64 `json:"warning_low"`
	WarningHigh  *float64 `json:"warning_high"`
	CriticalHigh *float64 `json:"critical_high"`
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON renders unbounded edges as null.
func (b Band) MarshalJSON() ([]byte, error) {
	return json.Marshal(bandJSON{
		CriticalLow:  finite(b.CriticalLow),
		WarningLow:   finite(b.WarningLow),
		WarningHigh:  finite(b.WarningHigh),
		CriticalHigh: finite(b.CriticalHigh),
	})
}

// Open band edges.
var (
	negInf = math.Inf(-1)
	posInf = math.Inf(1)
)

func DefaultBands() map[Metric]Band {
	return map[Metric]Band{
		Temperature: {CriticalLow: 18, WarningLow: 22, WarningHigh: 27, CriticalHigh: 30},
		Humidity:    {CriticalLow: 30, WarningLow: 40, WarningHigh: 70, CriticalHigh: 80},
		CO2:         {CriticalLow: negInf, WarningLow: negInf, WarningHigh: 800, CriticalHigh: 1000},
	}
}

type Status struct {
	Metric    Metric    `json:"metric"`
	Value     float64   `json:"value"`
	Tier      Tier      `json:"tier"`
	Direction Direction `json:"direction"`
	Color     string    `json:"color"`
}

// MarshalJSON keeps NaN readings encodable.
func (s Status) MarshalJSON() ([]byte, error) {
	type alias Status
	out := struct {
		alias
		Value *float64 `json:"value"`
	}{alias: alias(s)}
	if !math.IsNaN(s.Value) && !math.IsInf(s.Value, 0) {
		v := s.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

type Reading struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	CO2         float64 `json:"co2"`
}

func (r Reading) Value(m Metric) float64 {
	switch m {
	case Temperature:
		return r.Temperature
	case Humidity:
		return r.Humidity
	case CO2:
		return r.CO2
	}
	return math.NaN()
}

type Assessment struct {
	Temperature Status `json:"temperature"`
	Humidity    Status `json:"humidity"`
	CO2         Status `json:"co2"`
}

func (a Assessment) Of(m Metric) Status {
	switch m {
	case Humidity:
		return a.Humidity
	case CO2:
		return a.CO2
	}
	return a.Temperature
}

// Evaluator is immutable after construction and safe for concurrent use.
type Evaluator struct {
	bands map[Metric]Band
}

func NewEvaluator() *Evaluator { return &Evaluator{bands: DefaultBands()} }

// WithBands returns an evaluator with the given bands laid over the defaults.
func WithBands(overrides map[Metric]Band) (*Evaluator, error) {
	bands := DefaultBands()
	for m, b := range overrides {
		if _, ok := bands[m]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, m)
		}
		if !b.Valid() {
			return nil, fmt.Errorf("%w: %s %+v", ErrBandOrder, m, b)
		}
		bands[m] = b
	}
	return &Evaluator{bands: bands}, nil
}

func (e *Evaluator) Bands() map[Metric]Band {
	out := make(map[Metric]Band, len(e.bands))
	for m, b := range e.bands {
		out[m] = b
	}
	return out
}

// Classify never fails. A metric without a band is reported critical.
func (e *Evaluator) Classify(m Metric, v float64) Status {
	b, ok := e.bands[m]
	tier, dir := Critical, None
	if ok {
		tier, dir = b.classify(v)
	}
	return Status{Metric: m, Value: v, Tier: tier, Direction: dir, Color: tier.Color()}
}

func (e *Evaluator) Assess(r Reading) Assessment {
	return Assessment{
		Temperature: e.Classify(Temperature, r.Temperature),
		Humidity:    e.Classify(Humidity, r.Humidity),
		CO2:         e.Classify(CO2, r.CO2),
	}
}
