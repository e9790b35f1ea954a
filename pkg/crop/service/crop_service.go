package service

import (
	"context"
	"io"

	"greenhouse/entities"
	"greenhouse/pkg/care"
)

type CreateCropInput struct {
	Name                  string `json:"name"`
	Variety               string `json:"variety"`
	PlantedDate           string `json:"planted_date"`
	GrowthStage           string `json:"growth_stage"`
	WateringSchedule      string `json:"watering_schedule"`
	PruningSchedule       string `json:"pruning_schedule"`
	FertilizationSchedule string `json:"fertilization_schedule"`
	Notes                 string `json:"notes"`
	Image                 string `json:"image"`
}

// UpdateCropInput leaves nil fields untouched.
type UpdateCropInput struct {
	Variety               *string `json:"variety"`
	GrowthStage           *string `json:"growth_stage"`
	WateringSchedule      *string `json:"watering_schedule"`
	PruningSchedule       *string `json:"pruning_schedule"`
	FertilizationSchedule *string `json:"fertilization_schedule"`
	Notes                 *string `json:"notes"`
	Image                 *string `json:"image"`
}

type CropService interface {
	Create(ctx context.Context, uid string, in CreateCropInput) (*entities.Crop, error)
	List(ctx context.Context, uid string) ([]entities.Crop, error)
	Get(ctx context.Context, uid, id string) (*entities.Crop, error)
	Update(ctx context.Context, uid, id string, in UpdateCropInput) (*entities.Crop, error)
	LogActivity(ctx context.Context, uid, id string, a care.Activity) (*entities.Crop, error)
	History(ctx context.Context, uid, id string, limit int) ([]entities.CareLog, error)
	ExportCalendar(ctx context.Context, uid string, w io.Writer) error
}
