package controller

import "github.com/labstack/echo/v4"

type ControlController interface {
	Zones(c echo.Context) error
	PatchZone(c echo.Context) error
	Settings(c echo.Context) error
	PutSettings(c echo.Context) error
	Effective(c echo.Context) error
}
