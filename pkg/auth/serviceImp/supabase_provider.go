package serviceImp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"greenhouse/pkg/apierr"
	"greenhouse/pkg/auth/service"
)

type gotrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type gotrueSession struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int        `json:"expires_in"`
	User         gotrueUser `json:"user"`
	// signup answers with a bare user when email confirmation is on
	ID    string `json:"id"`
	Email string `json:"email"`
}

type gotrueError struct {
	ErrorCode        string `json:"error_code"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e gotrueError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return "unknown error"
}

type supabaseProvider struct {
	client  *resty.Client
	baseURL string
	log     *zap.Logger
}

// NewSupabaseProvider talks to the hosted GoTrue endpoints under /auth/v1.
func NewSupabaseProvider(baseURL, anonKey string, log *zap.Logger) service.Provider {
	c := resty.New().
		SetBaseURL(baseURL+"/auth/v1").
		SetHeader("apikey", anonKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	return &supabaseProvider{client: c, baseURL: baseURL, log: log.Named("auth.supabase")}
}

func (p *supabaseProvider) Name() string { return "supabase" }

func rejection(resp *resty.Response) (code, msg string) {
	msg = resp.Status()
	if ge, ok := resp.Error().(*gotrueError); ok && ge != nil {
		if t := ge.text(); t != "unknown error" {
			msg = t
		}
		code = ge.ErrorCode
	}
	return code, msg
}

func clientFault(resp *resty.Response) bool {
	sc := resp.StatusCode()
	return sc >= 400 && sc < 500 && sc != http.StatusTooManyRequests
}

// fail classifies a non-2xx answer. 4xx on credential calls is the caller's
// fault; rate limiting and 5xx are upstream failures.
func (p *supabaseProvider) fail(op string, resp *resty.Response, err error, clientErr error) error {
	if err != nil {
		return apierr.Upstream("auth", fmt.Errorf("%s: %w", op, err))
	}
	_, msg := rejection(resp)
	p.log.Info("gotrue rejected", zap.String("op", op), zap.Int("status", resp.StatusCode()), zap.String("msg", msg))
	if clientFault(resp) && clientErr != nil {
		return fmt.Errorf("%w: %s", clientErr, msg)
	}
	return apierr.Upstream("auth", fmt.Errorf("%s: %s", op, msg))
}

// signUpFail only reports a conflict when GoTrue says the user exists; other
// client errors (weak password, bad email) are validation failures.
func (p *supabaseProvider) signUpFail(resp *resty.Response, err error) error {
	if err != nil || !clientFault(resp) {
		return p.fail("signup", resp, err, nil)
	}
	code, msg := rejection(resp)
	p.log.Info("gotrue rejected", zap.String("op", "signup"), zap.Int("status", resp.StatusCode()), zap.String("msg", msg))
	if code == "user_already_exists" || code == "email_exists" || strings.Contains(strings.ToLower(msg), "already registered") {
		return fmt.Errorf("%w: %s", service.ErrEmailTaken, msg)
	}
	return apierr.Validation(msg, nil)
}

func (p *supabaseProvider) SignUp(ctx context.Context, email, password string) (service.Identity, error) {
	var out gotrueSession
	resp, err := p.client.R().SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).SetError(&gotrueError{}).
		Post("/signup")
	if err != nil || resp.IsError() {
		return service.Identity{}, p.signUpFail(resp, err)
	}
	id := service.Identity{UserID: out.User.ID, Email: out.User.Email}
	if id.UserID == "" {
		id = service.Identity{UserID: out.ID, Email: out.Email}
	}
	if id.UserID == "" {
		return service.Identity{}, apierr.Upstream("auth", fmt.Errorf("signup: no user in response"))
	}
	return id, nil
}

func (p *supabaseProvider) SignIn(ctx context.Context, email, password string) (service.Tokens, error) {
	var out gotrueSession
	resp, err := p.client.R().SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).SetError(&gotrueError{}).
		Post("/token")
	if err != nil || resp.IsError() {
		return service.Tokens{}, p.fail("token", resp, err, service.ErrInvalidCredentials)
	}
	return service.Tokens{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(out.ExpiresIn) * time.Second),
		UserID:       out.User.ID,
		Email:        out.User.Email,
	}, nil
}

func (p *supabaseProvider) SignOut(ctx context.Context, token string) error {
	resp, err := p.client.R().SetContext(ctx).
		SetAuthToken(token).SetError(&gotrueError{}).
		Post("/logout")
	if err != nil || resp.IsError() {
		return p.fail("logout", resp, err, service.ErrInvalidToken)
	}
	return nil
}

func (p *supabaseProvider) ResetPassword(ctx context.Context, email, redirectTo string) error {
	r := p.client.R().SetContext(ctx).
		SetBody(map[string]string{"email": email}).SetError(&gotrueError{})
	if redirectTo != "" {
		r.SetQueryParam("redirect_to", redirectTo)
	}
	resp, err := r.Post("/recover")
	if err != nil || resp.IsError() {
		return p.fail("recover", resp, err, nil)
	}
	return nil
}

// ConfirmReset sets the password with the access token GoTrue puts on the
// recovery link.
func (p *supabaseProvider) ConfirmReset(ctx context.Context, token, password string) error {
	resp, err := p.client.R().SetContext(ctx).
		SetAuthToken(token).
		SetBody(map[string]string{"password": password}).SetError(&gotrueError{}).
		Put("/user")
	if err != nil {
		return p.fail("user", resp, err, nil)
	}
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return service.ErrInvalidToken
	}
	if resp.IsError() {
		if clientFault(resp) {
			_, msg := rejection(resp)
			return apierr.Validation(msg, nil)
		}
		return p.fail("user", resp, nil, nil)
	}
	return nil
}

func (p *supabaseProvider) OAuthURL(provider, redirectTo string) (string, error) {
	q := url.Values{"provider": {provider}}
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return p.baseURL + "/auth/v1/authorize?" + q.Encode(), nil
}

func (p *supabaseProvider) Verify(ctx context.Context, token string) (service.Session, error) {
	var u gotrueUser
	resp, err := p.client.R().SetContext(ctx).
		SetAuthToken(token).SetResult(&u).SetError(&gotrueError{}).
		Get("/user")
	if err != nil {
		return service.Session{}, p.fail("user", resp, err, nil)
	}
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return service.Session{}, service.ErrInvalidToken
	}
	if resp.IsError() {
		return service.Session{}, p.fail("user", resp, nil, service.ErrInvalidToken)
	}
	return service.Session{UserID: u.ID, Email: u.Email, Token: token}, nil
}
