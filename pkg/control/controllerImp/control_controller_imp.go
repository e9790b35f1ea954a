package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"greenhouse/pkg/apierr"
	"greenhouse/pkg/control/service"
)

type ControlCtrl struct{ svc service.ControlService }

func New(svc service.ControlService) *ControlCtrl { return &ControlCtrl{svc} }

func (h *ControlCtrl) Zones(c echo.Context) error {
	out, err := h.svc.Zones(c.Request().Context())
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ControlCtrl) PatchZone(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apierr.Respond(c, apierr.NotFound("zone"))
	}
	var body service.ZonePatch
	if err := c.Bind(&body); err != nil {
		return apierr.BadJSON(c)
	}
	z, err := h.svc.UpdateZone(c.Request().Context(), uint(id), body)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, z)
}

func (h *ControlCtrl) Settings(c echo.Context) error {
	p, err := h.svc.Settings(c.Request().Context())
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ControlCtrl) PutSettings(c echo.Context) error {
	var body service.SettingsInput
	if err := c.Bind(&body); err != nil {
		return apierr.BadJSON(c)
	}
	p, err := h.svc.UpdateSettings(c.Request().Context(), body)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ControlCtrl) Effective(c echo.Context) error {
	out, err := h.svc.Effective(c.Request().Context())
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
