package serviceImp

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"greenhouse/entities"
	"greenhouse/pkg/apierr"
	"greenhouse/pkg/auth/service"
	profileRepo "greenhouse/pkg/profile/repository"
)

const minPasswordLen = 6

type authSvc struct {
	p        service.Provider
	profiles profileRepo.ProfileRepository
	log      *zap.Logger
}

func NewAuthService(p service.Provider, profiles profileRepo.ProfileRepository, log *zap.Logger) service.AuthService {
	return &authSvc{p: p, profiles: profiles, log: log.Named("auth").With(zap.String("provider", p.Name()))}
}

func validateSignUp(in *service.SignUpInput) error {
	fe := apierr.FieldErrors{}
	trim := func(s *string) { *s = strings.TrimSpace(*s) }
	trim(&in.Name)
	trim(&in.Email)
	trim(&in.Gender)
	trim(&in.Mobile)
	trim(&in.Location)
	in.Email = strings.ToLower(in.Email)

	for field, v := range map[string]string{
		"name": in.Name, "email": in.Email, "password": in.Password,
		"gender": in.Gender, "mobile": in.Mobile, "location": in.Location,
	} {
		if v == "" {
			fe.Add(field, "required")
		}
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			fe.Add("email", "not an email address")
		}
	}
	if in.Password != "" && len(in.Password) < minPasswordLen {
		fe.Add("password", "at least 6 characters")
	}
	if in.Password != in.ConfirmPassword {
		fe.Add("confirm_password", "passwords do not match")
	}
	if in.Mobile != "" && len(in.Mobile) < 10 {
		fe.Add("mobile", "at least 10 characters")
	}
	return fe.Err()
}

// mapProviderErr turns provider sentinels into HTTP-shaped errors.
func mapProviderErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return apierr.Unauthorized(err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		return apierr.Conflict(err.Error())
	case errors.Is(err, service.ErrUnsupported):
		return apierr.Validation(err.Error(), nil)
	}
	return err
}

func (s *authSvc) SignUp(ctx context.Context, in service.SignUpInput) (service.Identity, error) {
	if err := validateSignUp(&in); err != nil {
		return service.Identity{}, err
	}
	id, err := s.p.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		s.log.Info("sign up rejected", zap.String("email", in.Email), zap.Error(err))
		return service.Identity{}, mapProviderErr(err)
	}
	p := &entities.Profile{
		ID: id.UserID, Name: in.Name, Email: in.Email,
		Gender: in.Gender, Mobile: in.Mobile, Location: in.Location,
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		// the identity exists upstream; the profile can be completed later via PUT /profile
		s.log.Error("create profile after sign up", zap.String("user", id.UserID), zap.Error(err))
		return id, err
	}
	s.log.Info("signed up", zap.String("user", id.UserID))
	return id, nil
}

func (s *authSvc) SignIn(ctx context.Context, in service.Credentials) (service.Tokens, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	fe := apierr.FieldErrors{}
	if email == "" {
		fe.Add("email", "required")
	}
	if in.Password == "" {
		fe.Add("password", "required")
	}
	if err := fe.Err(); err != nil {
		return service.Tokens{}, err
	}
	t, err := s.p.SignIn(ctx, email, in.Password)
	return t, mapProviderErr(err)
}

func (s *authSvc) SignOut(ctx context.Context, token string) error {
	return mapProviderErr(s.p.SignOut(ctx, token))
}

func (s *authSvc) ResetPassword(ctx context.Context, email, redirectTo string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return apierr.Validation("validation failed", map[string]string{"email": "not an email address"})
	}
	return mapProviderErr(s.p.ResetPassword(ctx, email, redirectTo))
}

func (s *authSvc) ConfirmReset(ctx context.Context, in service.ConfirmResetInput) error {
	fe := apierr.FieldErrors{}
	token := strings.TrimSpace(in.Token)
	if token == "" {
		fe.Add("token", "required")
	}
	if len(in.Password) < minPasswordLen {
		fe.Add("password", "at least 6 characters")
	}
	if in.Password != in.ConfirmPassword {
		fe.Add("confirm_password", "passwords do not match")
	}
	if err := fe.Err(); err != nil {
		return err
	}
	return mapProviderErr(s.p.ConfirmReset(ctx, token, in.Password))
}

func (s *authSvc) OAuthURL(provider, redirectTo string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return "", apierr.Validation("validation failed", map[string]string{"provider": "required"})
	}
	u, err := s.p.OAuthURL(provider, redirectTo)
	return u, mapProviderErr(err)
}

func (s *authSvc) Verify(ctx context.Context, token string) (service.Session, error) {
	if strings.TrimSpace(token) == "" {
		return service.Session{}, apierr.Unauthorized("missing session token")
	}
	sess, err := s.p.Verify(ctx, token)
	return sess, mapProviderErr(err)
}
