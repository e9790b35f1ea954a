package service

import (
	"context"

	"greenhouse/entities"
	"greenhouse/pkg/climate"
)

type ZonePatch struct {
	Active   *bool `json:"active"`
	FanSpeed *int  `json:"fan_speed"`
}

type SettingsInput struct {
	AutoMode bool                `json:"auto_mode"`
	Schedule climate.FanSchedule `json:"schedule"`
	Triggers climate.Triggers    `json:"triggers"`
}

type ZoneEffective struct {
	entities.Zone
	EffectiveSpeed int    `json:"effective_speed"`
	Mode           string `json:"mode"`
}

type Effective struct {
	DayPart    climate.DayPart     `json:"day_part"`
	AutoMode   bool                `json:"auto_mode"`
	Assessment *climate.Assessment `json:"assessment,omitempty"`
	Zones      []ZoneEffective     `json:"zones"`
}

type ControlService interface {
	Zones(ctx context.Context) ([]entities.Zone, error)
	UpdateZone(ctx context.Context, id uint, p ZonePatch) (*entities.Zone, error)
	Settings(ctx context.Context) (climate.FanPlan, error)
	UpdateSettings(ctx context.Context, in SettingsInput) (climate.FanPlan, error)
	Effective(ctx context.Context) (Effective, error)
}
