package climate

import "time"

const MaxFanSpeed = 5

type DayPart string

const (
	Morning   DayPart = "morning"
	Afternoon DayPart = "afternoon"
	Evening   DayPart = "evening"
	Night     DayPart = "night"
)

// DayPartAt buckets the wall-clock hour of t: morning 06-12, afternoon 12-18,
// evening 18-22, night otherwise.
func DayPartAt(t time.Time) DayPart {
	switch h := t.Hour(); {
	case h >= 6 && h < 12:
		return Morning
	case h >= 12 && h < 18:
		return Afternoon
	case h >= 18 && h < 22:
		return Evening
	}
	return Night
}

// FanSchedule is the auto-mode base speed per day part.
type FanSchedule struct {
	Morning   int `json:"morning"`
	Afternoon int `json:"afternoon"`
	Evening   int `json:"evening"`
	Night     int `json:"night"`
}

func (s FanSchedule) SpeedFor(p DayPart) int {
	switch p {
	case Morning:
		return s.Morning
	case Afternoon:
		return s.Afternoon
	case Evening:
		return s.Evening
	}
	return s.Night
}

type Triggers struct {
	Temperature bool `json:"temperature"`
	Humidity    bool `json:"humidity"`
	CO2         bool `json:"co2"`
}

func (t Triggers) enabled(m Metric) bool {
	switch m {
	case Temperature:
		return t.Temperature
	case Humidity:
		return t.Humidity
	case CO2:
		return t.CO2
	}
	return false
}

type FanPlan struct {
	AutoMode bool        `json:"auto_mode"`
	Schedule FanSchedule `json:"schedule"`
	Triggers Triggers    `json:"triggers"`
}

type ZoneState struct {
	Active   bool
	FanSpeed int
}

// Adjustment is the auto-mode correction for an assessment: the largest
// raise among enabled high triggers, else -1 when the temperature runs low.
func Adjustment(a Assessment, trig Triggers) int {
	adj := 0
	for _, m := range Metrics() {
		if !trig.enabled(m) {
			continue
		}
		s := a.Of(m)
		if s.Direction != High {
			continue
		}
		step := 1
		if s.Tier == Critical {
			step = 2
		}
		if step > adj {
			adj = step
		}
	}
	if adj == 0 && trig.Temperature && a.Temperature.Direction == Low {
		adj = -1
	}
	return adj
}

// EffectiveSpeed is the fan speed a zone should run at right now.
func EffectiveSpeed(z ZoneState, plan FanPlan, a Assessment, at time.Time) int {
	if !z.Active {
		return 0
	}
	if !plan.AutoMode {
		return ClampSpeed(z.FanSpeed)
	}
	return ClampSpeed(plan.Schedule.SpeedFor(DayPartAt(at)) + Adjustment(a, plan.Triggers))
}

func ClampSpeed(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxFanSpeed {
		return MaxFanSpeed
	}
	return v
}

func ValidSpeed(v int) bool { return v >= 0 && v <= MaxFanSpeed }
