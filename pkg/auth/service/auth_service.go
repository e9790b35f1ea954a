package service

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired session")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnsupported        = errors.New("not supported by this auth provider")
)

// Session is the verified caller of a request.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"-"`
}

type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
}

// Provider is the identity backend: either the hosted auth service or the
// built-in account table.
type Provider interface {
	Name() string
	SignUp(ctx context.Context, email, password string) (Identity, error)
	SignIn(ctx context.Context, email, password string) (Tokens, error)
	SignOut(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, email, redirectTo string) error
	// ConfirmReset sets a new password using the token from a reset request.
	ConfirmReset(ctx context.Context, token, password string) error
	OAuthURL(provider, redirectTo string) (string, error)
	Verify(ctx context.Context, token string) (Session, error)
}

type SignUpInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Gender          string `json:"gender"`
	Mobile          string `json:"mobile"`
	Location        string `json:"location"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ConfirmResetInput struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (Identity, error)
	SignIn(ctx context.Context, in Credentials) (Tokens, error)
	SignOut(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, email, redirectTo string) error
	ConfirmReset(ctx context.Context, in ConfirmResetInput) error
	OAuthURL(provider, redirectTo string) (string, error)
	Verify(ctx context.Context, token string) (Session, error)
}
