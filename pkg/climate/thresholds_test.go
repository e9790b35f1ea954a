package climate

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Defaults(t *testing.T) {
	e := NewEvaluator()
	cases := []struct {
		m    Metric
		v    float64
		tier Tier
		dir  Direction
	}{
		{Temperature, 25, Normal, None},
		{Temperature, 22, Normal, None},
		{Temperature, 27, Normal, None},
		{Temperature, 21.9, Warning, Low},
		{Temperature, 28, Warning, High},
		{Temperature, 18, Warning, Low},
		{Temperature, 30, Warning, High},
		{Temperature, 17.9, Critical, Low},
		{Temperature, 31, Critical, High},
		{Temperature, -40, Critical, Low},
		{Humidity, 55, Normal, None},
		{Humidity, 35, Warning, Low},
		{Humidity, 75, Warning, High},
		{Humidity, 85, Critical, High},
		{Humidity, 25, Critical, Low},
		{CO2, 780, Normal, None},
		{CO2, 0, Normal, None},
		{CO2, -5, Normal, None},
		{CO2, 850, Warning, High},
		{CO2, 1000, Warning, High},
		{CO2, 1200, Critical, High},
	}
	for _, tc := range cases {
		s := e.Classify(tc.m, tc.v)
		assert.Equal(t, tc.tier, s.Tier, "%s=%v", tc.m, tc.v)
		assert.Equal(t, tc.dir, s.Direction, "%s=%v", tc.m, tc.v)
		assert.Equal(t, tc.tier.Color(), s.Color)
	}
}

func TestClassify_NaNAndUnknown(t *testing.T) {
	e := NewEvaluator()
	s := e.Classify(Humidity, math.NaN())
	assert.Equal(t, Critical, s.Tier)
	assert.Equal(t, None, s.Direction)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"value":null`)

	assert.Equal(t, Critical, e.Classify(Metric("ph"), 7).Tier)
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric(" CO2 ")
	require.NoError(t, err)
	assert.Equal(t, CO2, m)
	_, err = ParseMetric("light")
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestTierColors(t *testing.T) {
	assert.Equal(t, "green", Normal.Color())
	assert.Equal(t, "yellow", Warning.Color())
	assert.Equal(t, "red", Critical.Color())
	assert.True(t, Critical.Worse(Warning))
	assert.True(t, Warning.Worse(Normal))
	assert.False(t, Normal.Worse(Normal))
}

func TestWithBands(t *testing.T) {
	e, err := WithBands(map[Metric]Band{Temperature: {CriticalLow: 10, WarningLow: 15, WarningHigh: 32, CriticalHigh: 35}})
	require.NoError(t, err)
	assert.Equal(t, Normal, e.Classify(Temperature, 29).Tier)
	assert.Equal(t, Critical, e.Classify(Humidity, 90).Tier)

	_, err = WithBands(map[Metric]Band{Humidity: {CriticalLow: 50, WarningLow: 40, WarningHigh: 70, CriticalHigh: 80}})
	assert.ErrorIs(t, err, ErrBandOrder)
}

func TestBandJSON_UnboundedIsNull(t *testing.T) {
	b, err := json.Marshal(DefaultBands()[CO2])
	require.NoError(t, err)
	assert.JSONEq(t, `{"critical_low":null,"warning_low":null,"warning_high":800,"critical_high":1000}`, string(b))
}

func TestAssess(t *testing.T) {
	a := NewEvaluator().Assess(Reading{Temperature: 27.5, Humidity: 62, CO2: 780})
	assert.Equal(t, Warning, a.Temperature.Tier)
	assert.Equal(t, Normal, a.Humidity.Tier)
	assert.Equal(t, Normal, a.CO2.Tier)
	assert.Equal(t, a.CO2, a.Of(CO2))
}

func TestDefaultBands_OpenEdges(t *testing.T) {
	co2 := DefaultBands()[CO2]
	assert.True(t, math.IsInf(co2.CriticalLow, -1))
	assert.True(t, math.IsInf(co2.WarningLow, -1))
	assert.True(t, co2.Valid())
	for _, m := range Metrics() {
		assert.True(t, DefaultBands()[m].Valid(), m)
	}
}
