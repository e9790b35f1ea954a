package serviceImp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"greenhouse/entities"
	"greenhouse/pkg/auth/repository"
	"greenhouse/pkg/auth/service"
)

type localClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type localProvider struct {
	accounts repository.AccountRepository
	secret   []byte
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewLocalProvider keeps accounts in the application database and issues
// HS256 tokens. An empty secret gets a random per-process key.
func NewLocalProvider(accounts repository.AccountRepository, secret string, ttl time.Duration, log *zap.Logger) service.Provider {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
		log.Warn("JWT_SECRET not set, sessions will not survive a restart")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &localProvider{accounts: accounts, secret: key, ttl: ttl, log: log.Named("auth.local"), now: time.Now}
}

func (p *localProvider) Name() string { return "local" }

func (p *localProvider) SignUp(ctx context.Context, email, password string) (service.Identity, error) {
	if _, err := p.accounts.FindByEmail(ctx, email); err == nil {
		return service.Identity{}, service.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return service.Identity{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return service.Identity{}, err
	}
	a := &entities.Account{ID: uuid.NewString(), Email: email, PasswordHash: string(hash)}
	if err := p.accounts.Create(ctx, a); err != nil {
		return service.Identity{}, err
	}
	return service.Identity{UserID: a.ID, Email: a.Email}, nil
}

func (p *localProvider) SignIn(ctx context.Context, email, password string) (service.Tokens, error) {
	a, err := p.accounts.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return service.Tokens{}, service.ErrInvalidCredentials
	}
	if err != nil {
		return service.Tokens{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return service.Tokens{}, service.ErrInvalidCredentials
	}

	now := p.now()
	exp := now.Add(p.ttl)
	claims := localClaims{
		Email: a.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return service.Tokens{}, err
	}
	return service.Tokens{AccessToken: signed, ExpiresAt: exp, UserID: a.ID, Email: a.Email}, nil
}

func (p *localProvider) parse(token string) (*localClaims, error) {
	claims := &localClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidToken, err)
	}
	return claims, nil
}

func (p *localProvider) SignOut(ctx context.Context, token string) error {
	claims, err := p.parse(token)
	if err != nil {
		return err
	}
	if err := p.accounts.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	if n, err := p.accounts.PurgeRevoked(ctx, p.now()); err == nil && n > 0 {
		p.log.Debug("purged expired revocations", zap.Int64("rows", n))
	}
	return nil
}

// ResetTokenTTL is how long a local reset token can be confirmed.
const ResetTokenTTL = time.Hour

// ResetPassword records a reset token. There is no mail transport, so the
// token is written to the log for the operator to hand over.
func (p *localProvider) ResetPassword(ctx context.Context, email, redirectTo string) error {
	if _, err := p.accounts.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// unknown emails answer the same as known ones
			return nil
		}
		return err
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	r := &entities.PasswordReset{ID: uuid.NewString(), Email: email, Token: hex.EncodeToString(buf), CreatedAt: p.now()}
	if err := p.accounts.SaveReset(ctx, r); err != nil {
		return err
	}
	p.log.Info("password reset requested", zap.String("email", email), zap.String("token", r.Token),
		zap.Time("expires_at", r.CreatedAt.Add(ResetTokenTTL)), zap.String("redirect_to", redirectTo))
	return nil
}

func (p *localProvider) ConfirmReset(ctx context.Context, token, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := p.now()
	err = p.accounts.ConsumeReset(ctx, token, now.Add(-ResetTokenTTL), now, string(hash))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return service.ErrInvalidToken
	}
	if err != nil {
		return err
	}
	p.log.Info("password reset confirmed")
	return nil
}

func (p *localProvider) OAuthURL(string, string) (string, error) {
	return "", service.ErrUnsupported
}

func (p *localProvider) Verify(ctx context.Context, token string) (service.Session, error) {
	claims, err := p.parse(token)
	if err != nil {
		return service.Session{}, err
	}
	revoked, err := p.accounts.IsRevoked(ctx, claims.ID)
	if err != nil {
		return service.Session{}, err
	}
	if revoked {
		return service.Session{}, service.ErrInvalidToken
	}
	return service.Session{UserID: claims.Subject, Email: claims.Email, ExpiresAt: claims.ExpiresAt.Time, Token: token}, nil
}
