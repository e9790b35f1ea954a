package repository

import (
	"context"
	"time"

	"greenhouse/entities"
)

type SensorRepository interface {
	SaveReading(ctx context.Context, r *entities.SensorReading) error
	Latest(ctx context.Context) (*entities.SensorReading, error)
	Since(ctx context.Context, from time.Time) ([]entities.SensorReading, error)
	SaveAlert(ctx context.Context, a *entities.Alert) error
	RecentAlerts(ctx context.Context, limit int) ([]entities.Alert, error)
	// Prune drops readings older than before.
	Prune(ctx context.Context, before time.Time) (int64, error)
}
