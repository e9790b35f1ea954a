package entities

import (
	"time"

	"greenhouse/pkg/climate"
)

type Zone struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	FanSpeed  int       `json:"fan_speed"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (z Zone) State() climate.ZoneState {
	return climate.ZoneState{Active: z.Active, FanSpeed: z.FanSpeed}
}

// ControlSettings is a single row (ID 1).
type ControlSettings struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	AutoMode        bool      `json:"auto_mode"`
	Morning         int       `json:"morning"`
	Afternoon       int       `json:"afternoon"`
	Evening         int       `json:"evening"`
	Night           int       `json:"night"`
	TempTrigger     bool      `json:"temperature_trigger"`
	HumidityTrigger bool      `json:"humidity_trigger"`
	CO2Trigger      bool      `json:"co2_trigger"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (s ControlSettings) Plan() climate.FanPlan {
	return climate.FanPlan{
		AutoMode: s.AutoMode,
		Schedule: climate.FanSchedule{Morning: s.Morning, Afternoon: s.Afternoon, Evening: s.Evening, Night: s.Night},
		Triggers: climate.Triggers{Temperature: s.TempTrigger, Humidity: s.HumidityTrigger, CO2: s.CO2Trigger},
	}
}
