package repositoryImp

import (
	"context"
	"time"

	"gorm.io/gorm"

	"greenhouse/entities"
	"greenhouse/pkg/sensor/repository"
)

type sensorRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.SensorRepository { return &sensorRepo{db} }

func (r *sensorRepo) SaveReading(ctx context.Context, m *entities.SensorReading) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *sensorRepo) Latest(ctx context.Context) (*entities.SensorReading, error) {
	var out entities.SensorReading
	if err := r.db.WithContext(ctx).Order("recorded_at DESC, id DESC").First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sensorRepo) Since(ctx context.Context, from time.Time) ([]entities.SensorReading, error) {
	var out []entities.SensorReading
	if err := r.db.WithContext(ctx).Where("recorded_at >= ?", from).Order("recorded_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sensorRepo) SaveAlert(ctx context.Context, a *entities.Alert) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *sensorRepo) RecentAlerts(ctx context.Context, limit int) ([]entities.Alert, error) {
	var out []entities.Alert
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sensorRepo) Prune(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("recorded_at < ?", before).Delete(&entities.SensorReading{})
	return res.RowsAffected, res.Error
}
