package care

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupStage(t *testing.T) {
	want := map[Stage]int{Seedling: 20, Vegetative: 40, Flowering: 60, Fruiting: 80, Harvesting: 95}
	for stage, pct := range want {
		info := LookupStage(string(stage))
		assert.True(t, info.Known, stage)
		assert.Equal(t, pct, info.Percentage, stage)
		assert.NotEqual(t, neutralColor, info.Color)
	}

	info := LookupStage(" fruiting ")
	assert.Equal(t, Fruiting, info.Stage)

	for _, unknown := range []string{"", "Dormant", "seed"} {
		info := LookupStage(unknown)
		assert.False(t, info.Known)
		assert.Equal(t, 0, info.Percentage)
		assert.Equal(t, "gray", info.Color)
	}
}

func TestStages_OrderedAndCopied(t *testing.T) {
	s := Stages()
	assert.Len(t, s, 5)
	for i := 1; i < len(s); i++ {
		assert.Greater(t, s[i].Percentage, s[i-1].Percentage)
	}
	s[0].Percentage = 99
	assert.Equal(t, 20, LookupStage("Seedling").Percentage)
}
