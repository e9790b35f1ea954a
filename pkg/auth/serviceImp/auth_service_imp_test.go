package serviceImp

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"greenhouse/database/dbtest"
	"greenhouse/entities"
	"greenhouse/pkg/apierr"
	"greenhouse/pkg/auth/repositoryImp"
	"greenhouse/pkg/auth/service"
	profileRepoImp "greenhouse/pkg/profile/repositoryImp"
)

func signUpInput() service.SignUpInput {
	return service.SignUpInput{
		Name:            "Somchai",
		Email:           " Somchai@Example.com ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Gender:          "male",
		Mobile:          "0812345678",
		Location:        "Chiang Mai",
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var ae *apierr.APIError
	require.ErrorAs(t, err, &ae)
	return ae.Status
}

func TestValidateSignUp(t *testing.T) {
	in := signUpInput()
	require.NoError(t, validateSignUp(&in))
	assert.Equal(t, "somchai@example.com", in.Email)

	cases := map[string]func(*service.SignUpInput){
		"name":             func(in *service.SignUpInput) { in.Name = " " },
		"email":            func(in *service.SignUpInput) { in.Email = "not-an-email" },
		"password":         func(in *service.SignUpInput) { in.Password, in.ConfirmPassword = "abc", "abc" },
		"confirm_password": func(in *service.SignUpInput) { in.ConfirmPassword = "other1" },
		"mobile":           func(in *service.SignUpInput) { in.Mobile = "08123" },
		"location":         func(in *service.SignUpInput) { in.Location = "" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			in := signUpInput()
			mutate(&in)
			err := validateSignUp(&in)
			var ae *apierr.APIError
			require.ErrorAs(t, err, &ae)
			assert.Contains(t, ae.Details, field)
		})
	}
}

func newLocal(t *testing.T) (service.AuthService, *localProvider) {
	t.Helper()
	db := dbtest.New(t)
	p := NewLocalProvider(repositoryImp.New(db), "test-secret", time.Hour, zap.NewNop()).(*localProvider)
	return NewAuthService(p, profileRepoImp.New(db), zap.NewNop()), p
}

func TestLocalFlow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLocal(t)

	id, err := svc.SignUp(ctx, signUpInput())
	require.NoError(t, err)
	assert.NotEmpty(t, id.UserID)

	_, err = svc.SignUp(ctx, signUpInput())
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	_, err = svc.SignIn(ctx, service.Credentials{Email: "somchai@example.com", Password: "wrong!"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	tok, err := svc.SignIn(ctx, service.Credentials{Email: "SOMCHAI@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, tok.AccessToken)

	sess, err := svc.Verify(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id.UserID, sess.UserID)
	assert.Equal(t, "somchai@example.com", sess.Email)

	require.NoError(t, svc.SignOut(ctx, tok.AccessToken))
	_, err = svc.Verify(ctx, tok.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestLocalVerify_ExpiredAndForeign(t *testing.T) {
	ctx := context.Background()
	svc, p := newLocal(t)
	_, err := svc.SignUp(ctx, signUpInput())
	require.NoError(t, err)
	tok, err := svc.SignIn(ctx, service.Credentials{Email: "somchai@example.com", Password: "secret1"})
	require.NoError(t, err)

	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Verify(ctx, tok.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	p.now = time.Now

	other := NewLocalProvider(repositoryImp.New(dbtest.New(t)), "another-secret", time.Hour, zap.NewNop())
	_, err = other.Verify(ctx, tok.AccessToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = svc.Verify(ctx, "")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestLocalReset_UnknownEmailIsSilent(t *testing.T) {
	svc, _ := newLocal(t)
	assert.NoError(t, svc.ResetPassword(context.Background(), "nobody@example.com", ""))

	err := svc.ResetPassword(context.Background(), "nope", "")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestLocalResetConfirm(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	p := NewLocalProvider(repositoryImp.New(db), "test-secret", time.Hour, zap.NewNop()).(*localProvider)
	svc := NewAuthService(p, profileRepoImp.New(db), zap.NewNop())

	_, err := svc.SignUp(ctx, signUpInput())
	require.NoError(t, err)
	require.NoError(t, svc.ResetPassword(ctx, "somchai@example.com", ""))

	var pr entities.PasswordReset
	require.NoError(t, db.Where("email = ?", "somchai@example.com").First(&pr).Error)
	require.Len(t, pr.Token, 32)

	err = svc.ConfirmReset(ctx, service.ConfirmResetInput{Token: pr.Token, Password: "n3wpass", ConfirmPassword: "other1"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	err = svc.ConfirmReset(ctx, service.ConfirmResetInput{Token: "deadbeef", Password: "n3wpass", ConfirmPassword: "n3wpass"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	require.NoError(t, svc.ConfirmReset(ctx, service.ConfirmResetInput{Token: pr.Token, Password: "n3wpass", ConfirmPassword: "n3wpass"}))

	_, err = svc.SignIn(ctx, service.Credentials{Email: "somchai@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	_, err = svc.SignIn(ctx, service.Credentials{Email: "somchai@example.com", Password: "n3wpass"})
	require.NoError(t, err)

	err = svc.ConfirmReset(ctx, service.ConfirmResetInput{Token: pr.Token, Password: "again12", ConfirmPassword: "again12"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err), "token is single use")
}

func TestLocalResetConfirm_Expired(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	p := NewLocalProvider(repositoryImp.New(db), "test-secret", time.Hour, zap.NewNop()).(*localProvider)
	svc := NewAuthService(p, profileRepoImp.New(db), zap.NewNop())

	_, err := svc.SignUp(ctx, signUpInput())
	require.NoError(t, err)
	require.NoError(t, svc.ResetPassword(ctx, "somchai@example.com", ""))
	var pr entities.PasswordReset
	require.NoError(t, db.First(&pr).Error)

	p.now = func() time.Time { return time.Now().Add(ResetTokenTTL + time.Minute) }
	err = svc.ConfirmReset(ctx, service.ConfirmResetInput{Token: pr.Token, Password: "n3wpass", ConfirmPassword: "n3wpass"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestLocalOAuthUnsupported(t *testing.T) {
	svc, _ := newLocal(t)
	_, err := svc.OAuthURL("google", "")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}
