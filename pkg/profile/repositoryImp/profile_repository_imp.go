package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"greenhouse/entities"
	"greenhouse/pkg/profile/repository"
)

type profileRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ProfileRepository { return &profileRepo{db} }

func (r *profileRepo) Create(ctx context.Context, p *entities.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *profileRepo) FindByID(ctx context.Context, id string) (*entities.Profile, error) {
	var p entities.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) Save(ctx context.Context, p *entities.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *profileRepo) Locations(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&entities.Profile{}).
		Where("location <> ''").Distinct().Order("location").Pluck("location", &out).Error
	return out, err
}
