package repositoryImp

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"greenhouse/entities"
	"greenhouse/pkg/auth/repository"
)

type accountRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.AccountRepository { return &accountRepo{db} }

func (r *accountRepo) Create(ctx context.Context, a *entities.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (*entities.Account, error) {
	var a entities.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entities.RevokedToken{JTI: jti, ExpiresAt: expiresAt}).Error
}

func (r *accountRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.RevokedToken{}).Where("jti = ?", jti).Count(&n).Error
	return n > 0, err
}

func (r *accountRepo) PurgeRevoked(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&entities.RevokedToken{})
	return res.RowsAffected, res.Error
}

func (r *accountRepo) SaveReset(ctx context.Context, pr *entities.PasswordReset) error {
	return r.db.WithContext(ctx).Create(pr).Error
}

func (r *accountRepo) ConsumeReset(ctx context.Context, token string, issuedAfter, now time.Time, passwordHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pr entities.PasswordReset
		if err := tx.Where("token = ? AND used_at IS NULL AND created_at > ?", token, issuedAfter).First(&pr).Error; err != nil {
			return err
		}
		res := tx.Model(&entities.PasswordReset{}).Where("id = ? AND used_at IS NULL", pr.ID).Update("used_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		res = tx.Model(&entities.Account{}).Where("email = ?", pr.Email).Update("password_hash", passwordHash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
