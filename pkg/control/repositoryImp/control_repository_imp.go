package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"greenhouse/entities"
	"greenhouse/pkg/control/repository"
)

const settingsID = 1

type controlRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ControlRepository { return &controlRepo{db} }

func (r *controlRepo) Zones(ctx context.Context) ([]entities.Zone, error) {
	var out []entities.Zone
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *controlRepo) Zone(ctx context.Context, id uint) (*entities.Zone, error) {
	var z entities.Zone
	if err := r.db.WithContext(ctx).First(&z, id).Error; err != nil {
		return nil, err
	}
	return &z, nil
}

// SaveZone writes every column so false and 0 are stored.
func (r *controlRepo) SaveZone(ctx context.Context, z *entities.Zone) error {
	return r.db.WithContext(ctx).Save(z).Error
}

func (r *controlRepo) Settings(ctx context.Context) (*entities.ControlSettings, error) {
	var s entities.ControlSettings
	if err := r.db.WithContext(ctx).First(&s, settingsID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *controlRepo) SaveSettings(ctx context.Context, s *entities.ControlSettings) error {
	s.ID = settingsID
	return r.db.WithContext(ctx).Save(s).Error
}
