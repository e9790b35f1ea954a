package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"greenhouse/pkg/apierr"
	"greenhouse/pkg/auth/controller"
	"greenhouse/pkg/auth/service"
	"greenhouse/pkg/middleware"
)

type authCtrl struct{ svc service.AuthService }

func NewAuthController(svc service.AuthService) controller.AuthController { return &authCtrl{svc} }

func (h *authCtrl) SignUp(c echo.Context) error {
	var req service.SignUpInput
	if err := c.Bind(&req); err != nil {
		return apierr.BadJSON(c)
	}
	id, err := h.svc.SignUp(c.Request().Context(), req)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, id)
}

func (h *authCtrl) Login(c echo.Context) error {
	var req service.Credentials
	if err := c.Bind(&req); err != nil {
		return apierr.BadJSON(c)
	}
	t, err := h.svc.SignIn(c.Request().Context(), req)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *authCtrl) Logout(c echo.Context) error {
	if err := h.svc.SignOut(c.Request().Context(), middleware.BearerToken(c)); err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *authCtrl) Reset(c echo.Context) error {
	var body struct {
		Email      string `json:"email"`
		RedirectTo string `json:"redirect_to"`
	}
	if err := c.Bind(&body); err != nil {
		return apierr.BadJSON(c)
	}
	if err := h.svc.ResetPassword(c.Request().Context(), body.Email, body.RedirectTo); err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *authCtrl) ConfirmReset(c echo.Context) error {
	var req service.ConfirmResetInput
	if err := c.Bind(&req); err != nil {
		return apierr.BadJSON(c)
	}
	if err := h.svc.ConfirmReset(c.Request().Context(), req); err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

// OAuth redirects to the provider consent page, or returns the URL with ?json=1.
func (h *authCtrl) OAuth(c echo.Context) error {
	u, err := h.svc.OAuthURL(c.Param("provider"), c.QueryParam("redirect_to"))
	if err != nil {
		return apierr.Respond(c, err)
	}
	if c.QueryParam("json") == "1" {
		return c.JSON(http.StatusOK, map[string]string{"url": u})
	}
	return c.Redirect(http.StatusFound, u)
}

// DevLogin only exists when ENABLE_DEV_LOGIN is set.
func (h *authCtrl) DevLogin(c echo.Context) error {
	uid := c.QueryParam("uid")
	if uid == "" {
		uid = middleware.DevDefaultUID
	}
	c.SetCookie(&http.Cookie{Name: middleware.DevCookie, Value: uid, Path: "/"})
	return c.JSON(http.StatusOK, map[string]string{"uid": uid})
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	sess, ok := middleware.SessionOf(c)
	if !ok {
		return c.JSON(http.StatusOK, map[string]string{"uid": middleware.UserID(c)})
	}
	return c.JSON(http.StatusOK, map[string]any{"uid": sess.UserID, "email": sess.Email, "expires_at": sess.ExpiresAt})
}
