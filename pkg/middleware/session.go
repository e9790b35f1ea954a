package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"greenhouse/pkg/apierr"
	"greenhouse/pkg/auth/service"
)

const (
	uidKey     = "uid"
	sessionKey = "session"
)

// Verifier is the part of the auth service the middleware needs.
type Verifier interface {
	Verify(ctx context.Context, token string) (service.Session, error)
}

// BearerToken reads the Authorization header, then ?token= for websocket clients.
func BearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return c.QueryParam("token")
}

// Session rejects requests without a valid session with 401.
func Session(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := v.Verify(c.Request().Context(), BearerToken(c))
			if err != nil {
				return apierr.Respond(c, err)
			}
			c.Set(sessionKey, sess)
			c.Set(uidKey, sess.UserID)
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	uid, _ := c.Get(uidKey).(string)
	return uid
}

func SessionOf(c echo.Context) (service.Session, bool) {
	s, ok := c.Get(sessionKey).(service.Session)
	return s, ok
}
