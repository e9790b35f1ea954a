package controller

import "github.com/labstack/echo/v4"

type AuthController interface {
	SignUp(c echo.Context) error
	Login(c echo.Context) error
	Logout(c echo.Context) error
	Reset(c echo.Context) error
	ConfirmReset(c echo.Context) error
	OAuth(c echo.Context) error
	DevLogin(c echo.Context) error
	WhoAmI(c echo.Context) error
}
