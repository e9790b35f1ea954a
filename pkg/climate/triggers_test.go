package climate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour int) time.Time { return time.Date(2024, 6, 1, hour, 30, 0, 0, time.UTC) }

func TestDayPartAt(t *testing.T) {
	want := map[int]DayPart{0: Night, 5: Night, 6: Morning, 11: Morning, 12: Afternoon, 17: Afternoon, 18: Evening, 21: Evening, 22: Night, 23: Night}
	for h, p := range want {
		assert.Equal(t, p, DayPartAt(at(h)), "hour %d", h)
	}
}

func TestEffectiveSpeed(t *testing.T) {
	e := NewEvaluator()
	plan := FanPlan{
		AutoMode: true,
		Schedule: FanSchedule{Morning: 2, Afternoon: 4, Evening: 3, Night: 1},
		Triggers: Triggers{Temperature: true, Humidity: true, CO2: true},
	}
	active := ZoneState{Active: true, FanSpeed: 3}
	normal := e.Assess(Reading{Temperature: 25, Humidity: 55, CO2: 500})

	t.Run("inactive zone is off", func(t *testing.T) {
		assert.Equal(t, 0, EffectiveSpeed(ZoneState{FanSpeed: 4}, plan, normal, at(9)))
	})
	t.Run("manual uses stored speed", func(t *testing.T) {
		manual := plan
		manual.AutoMode = false
		hot := e.Assess(Reading{Temperature: 35, Humidity: 55, CO2: 500})
		assert.Equal(t, 3, EffectiveSpeed(active, manual, hot, at(9)))
	})
	t.Run("schedule only", func(t *testing.T) {
		assert.Equal(t, 2, EffectiveSpeed(active, plan, normal, at(9)))
		assert.Equal(t, 4, EffectiveSpeed(active, plan, normal, at(13)))
		assert.Equal(t, 1, EffectiveSpeed(active, plan, normal, at(23)))
	})
	t.Run("warning high raises by one", func(t *testing.T) {
		a := e.Assess(Reading{Temperature: 25, Humidity: 75, CO2: 500})
		assert.Equal(t, 3, EffectiveSpeed(active, plan, a, at(9)))
	})
	t.Run("critical high raises by two and clamps", func(t *testing.T) {
		a := e.Assess(Reading{Temperature: 25, Humidity: 55, CO2: 1500})
		assert.Equal(t, 4, EffectiveSpeed(active, plan, a, at(9)))
		assert.Equal(t, 5, EffectiveSpeed(active, plan, a, at(13)))
	})
	t.Run("disabled trigger is ignored", func(t *testing.T) {
		p := plan
		p.Triggers.CO2 = false
		a := e.Assess(Reading{Temperature: 25, Humidity: 55, CO2: 1500})
		assert.Equal(t, 2, EffectiveSpeed(active, p, a, at(9)))
	})
	t.Run("cold lowers by one", func(t *testing.T) {
		a := e.Assess(Reading{Temperature: 16, Humidity: 55, CO2: 500})
		assert.Equal(t, 1, EffectiveSpeed(active, plan, a, at(9)))
		assert.Equal(t, 0, EffectiveSpeed(active, plan, a, at(23)))
	})
	t.Run("raise wins over cold", func(t *testing.T) {
		a := e.Assess(Reading{Temperature: 16, Humidity: 85, CO2: 500})
		assert.Equal(t, 4, EffectiveSpeed(active, plan, a, at(9)))
	})
}

func TestSpeedBounds(t *testing.T) {
	assert.Equal(t, 0, ClampSpeed(-3))
	assert.Equal(t, 5, ClampSpeed(9))
	assert.True(t, ValidSpeed(0))
	assert.True(t, ValidSpeed(5))
	assert.False(t, ValidSpeed(6))
}
