package repositoryImp

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"greenhouse/entities"
	"greenhouse/pkg/care"
	"greenhouse/pkg/crop/repository"
)

type cropRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.CropRepository { return &cropRepo{db} }

func (r *cropRepo) Create(ctx context.Context, c *entities.Crop) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cropRepo) ListByUser(ctx context.Context, uid string) ([]entities.Crop, error) {
	var out []entities.Crop
	if err := r.db.WithContext(ctx).Where("user_id = ?", uid).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cropRepo) FindByID(ctx context.Context, id, uid string) (*entities.Crop, error) {
	var c entities.Crop
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, uid).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cropRepo) Save(ctx context.Context, c *entities.Crop) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cropRepo) LogCare(ctx context.Context, c *entities.Crop, a care.Activity, log *entities.CareLog) (bool, error) {
	applied := false
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(log)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		e := c.Entry(a)
		lastCol, nextCol := entities.CareColumns(a)
		res = tx.Model(&entities.Crop{}).
			Where("id = ? AND user_id = ?", c.ID, c.UserID).
			Updates(map[string]any{lastCol: e.Last, nextCol: e.Next, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if applied {
		c.UpdatedAt = now
	}
	return applied, nil
}

func (r *cropRepo) History(ctx context.Context, cropID, uid string, limit int) ([]entities.CareLog, error) {
	var out []entities.CareLog
	q := r.db.WithContext(ctx).Where("crop_id = ? AND user_id = ?", cropID, uid).
		Order("performed_on DESC, created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
