package entities

import (
	"time"

	"greenhouse/pkg/care"
)

type Crop struct {
	ID               string    `gorm:"primaryKey;type:text" json:"id"`
	UserID           string    `gorm:"index" json:"user_id"`
	Name             string    `json:"name"`
	Variety          string    `json:"variety"`
	PlantedDate      time.Time `json:"planted_date"`
	GrowthStage      string    `json:"growth_stage"`
	GrowthPercentage int       `json:"growth_percentage"`

	WateringSchedule string     `json:"watering_schedule"`
	LastWatered      *time.Time `json:"last_watered"`
	NextWatering     *time.Time `json:"next_watering"`

	PruningSchedule string     `json:"pruning_schedule"`
	LastPruned      *time.Time `json:"last_pruned"`
	NextPruning     *time.Time `json:"next_pruning"`

	FertilizationSchedule string     `json:"fertilization_schedule"`
	LastFertilized        *time.Time `json:"last_fertilized"`
	NextFertilization     *time.Time `json:"next_fertilization"`

	Notes string `json:"notes"`
	Image string `json:"image"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entry reads the tracked state of one activity.
func (c *Crop) Entry(a care.Activity) care.Entry {
	switch a {
	case care.Watering:
		return care.Entry{Activity: a, Schedule: c.WateringSchedule, Last: c.LastWatered, Next: c.NextWatering}
	case care.Pruning:
		return care.Entry{Activity: a, Schedule: c.PruningSchedule, Last: c.LastPruned, Next: c.NextPruning}
	case care.Fertilization:
		return care.Entry{Activity: a, Schedule: c.FertilizationSchedule, Last: c.LastFertilized, Next: c.NextFertilization}
	}
	return care.Entry{Activity: a}
}

// SetEntry writes e back into the columns of its activity.
func (c *Crop) SetEntry(e care.Entry) {
	switch e.Activity {
	case care.Watering:
		c.WateringSchedule, c.LastWatered, c.NextWatering = e.Schedule, e.Last, e.Next
	case care.Pruning:
		c.PruningSchedule, c.LastPruned, c.NextPruning = e.Schedule, e.Last, e.Next
	case care.Fertilization:
		c.FertilizationSchedule, c.LastFertilized, c.NextFertilization = e.Schedule, e.Last, e.Next
	}
}

// CareColumns names the last/next columns of an activity.
func CareColumns(a care.Activity) (last, next string) {
	switch a {
	case care.Watering:
		return "last_watered", "next_watering"
	case care.Pruning:
		return "last_pruned", "next_pruning"
	case care.Fertilization:
		return "last_fertilized", "next_fertilization"
	}
	return "", ""
}

// CareLog is one performed activity. The unique index makes a second log of
// the same activity on the same day a no-op.
type CareLog struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	CropID      string     `gorm:"uniqueIndex:idx_care_once;index" json:"crop_id"`
	UserID      string     `gorm:"index" json:"user_id"`
	Activity    string     `gorm:"uniqueIndex:idx_care_once" json:"activity"`
	PerformedOn time.Time  `gorm:"uniqueIndex:idx_care_once" json:"performed_on"`
	NextDue     *time.Time `json:"next_due"`
	CreatedAt   time.Time  `json:"created_at"`
}
