package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	DevCookie     = "GH_UID"
	DevDefaultUID = "dev-user"
)

// DevLogin trusts a cookie or ?uid= for local development.
func DevLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := ""
			if ck, err := c.Cookie(DevCookie); err == nil {
				uid = ck.Value
			}
			if uid == "" {
				uid = c.QueryParam("uid")
				if uid == "" {
					uid = DevDefaultUID
				}
				c.SetCookie(&http.Cookie{Name: DevCookie, Value: uid, Path: "/"})
			}
			c.Set(uidKey, uid)
			return next(c)
		}
	}
}
