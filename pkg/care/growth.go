package care

import "strings"

type Stage string

const (
	Seedling   Stage = "Seedling"
	Vegetative Stage = "Vegetative"
	Flowering  Stage = "Flowering"
	Fruiting   Stage = "Fruiting"
	Harvesting Stage = "Harvesting"
)

const neutralColor = "gray"

type StageInfo struct {
	Stage      Stage  `json:"stage"`
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
	Known      bool   `json:"known"`
}

var stageLadder = []StageInfo{
	{Stage: Seedling, Percentage: 20, Color: "lime", Known: true},
	{Stage: Vegetative, Percentage: 40, Color: "green", Known: true},
	{Stage: Flowering, Percentage: 60, Color: "purple", Known: true},
	{Stage: Fruiting, Percentage: 80, Color: "orange", Known: true},
	{Stage: Harvesting, Percentage: 95, Color: "red", Known: true},
}

// Stages returns the ordered lifecycle ladder.
func Stages() []StageInfo {
	out := make([]StageInfo, len(stageLadder))
	copy(out, stageLadder)
	return out
}

// LookupStage never fails: unknown names map to 0% and the neutral color.
func LookupStage(name string) StageInfo {
	n := strings.TrimSpace(name)
	for _, s := range stageLadder {
		if strings.EqualFold(string(s.Stage), n) {
			return s
		}
	}
	return StageInfo{Stage: Stage(n), Percentage: 0, Color: neutralColor}
}
