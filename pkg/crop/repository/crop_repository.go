package repository

import (
	"context"

	"greenhouse/entities"
	"greenhouse/pkg/care"
)

type CropRepository interface {
	Create(ctx context.Context, c *entities.Crop) error
	ListByUser(ctx context.Context, uid string) ([]entities.Crop, error)
	FindByID(ctx context.Context, id, uid string) (*entities.Crop, error)
	Save(ctx context.Context, c *entities.Crop) error
	// LogCare writes the activity columns of c and the history row in one
	// transaction. applied is false when the same activity was already
	// logged for that day; nothing is written then.
	LogCare(ctx context.Context, c *entities.Crop, a care.Activity, log *entities.CareLog) (applied bool, err error)
	History(ctx context.Context, cropID, uid string, limit int) ([]entities.CareLog, error)
}
