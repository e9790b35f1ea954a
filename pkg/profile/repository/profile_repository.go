package repository

import (
	"context"

	"greenhouse/entities"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *entities.Profile) error
	FindByID(ctx context.Context, id string) (*entities.Profile, error)
	Save(ctx context.Context, p *entities.Profile) error
	// Locations lists distinct non-empty profile locations.
	Locations(ctx context.Context) ([]string, error)
}
