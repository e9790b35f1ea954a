package controllerImp

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"greenhouse/pkg/middleware"
	"greenhouse/pkg/weather"
)

type profileLocator interface {
	Location(ctx context.Context, uid string) string
}

type WeatherCtrl struct {
	svc      *weather.Service
	profiles profileLocator
}

func New(svc *weather.Service, profiles profileLocator) *WeatherCtrl {
	return &WeatherCtrl{svc: svc, profiles: profiles}
}

// location picks ?location=, then the caller's profile location, then the default.
func (h *WeatherCtrl) location(c echo.Context) string {
	loc := strings.TrimSpace(c.QueryParam("location"))
	if loc == "" && h.profiles != nil {
		loc = h.profiles.Location(c.Request().Context(), middleware.UserID(c))
	}
	return loc
}

func (h *WeatherCtrl) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Current(c.Request().Context(), h.location(c)))
}

func (h *WeatherCtrl) Forecast(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Forecast(c.Request().Context(), h.location(c)))
}
