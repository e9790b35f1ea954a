package repository

import (
	"context"
	"time"

	"greenhouse/entities"
)

type AccountRepository interface {
	Create(ctx context.Context, a *entities.Account) error
	FindByEmail(ctx context.Context, email string) (*entities.Account, error)
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PurgeRevoked(ctx context.Context, before time.Time) (int64, error)
	SaveReset(ctx context.Context, r *entities.PasswordReset) error
	// ConsumeReset marks an unused token issued after issuedAfter as used and
	// stores passwordHash on its account, in one transaction. An unknown,
	// used or expired token is gorm.ErrRecordNotFound.
	ConsumeReset(ctx context.Context, token string, issuedAfter, now time.Time, passwordHash string) error
}
