package repository

import (
	"context"

	"greenhouse/entities"
)

type ControlRepository interface {
	Zones(ctx context.Context) ([]entities.Zone, error)
	Zone(ctx context.Context, id uint) (*entities.Zone, error)
	SaveZone(ctx context.Context, z *entities.Zone) error
	Settings(ctx context.Context) (*entities.ControlSettings, error)
	SaveSettings(ctx context.Context, s *entities.ControlSettings) error
}
