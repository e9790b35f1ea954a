package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"greenhouse/pkg/apierr"
	"greenhouse/pkg/middleware"
	"greenhouse/pkg/profile/service"
)

type ProfileCtrl struct{ svc service.ProfileService }

func New(svc service.ProfileService) *ProfileCtrl { return &ProfileCtrl{svc} }

func (h *ProfileCtrl) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileCtrl) Update(c echo.Context) error {
	var req service.UpdateProfileInput
	if err := c.Bind(&req); err != nil {
		return apierr.BadJSON(c)
	}
	p, err := h.svc.Update(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileCtrl) UploadImage(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return apierr.Respond(c, apierr.Validation("validation failed", map[string]string{"image": "multipart file required"}))
	}
	f, err := fh.Open()
	if err != nil {
		return apierr.Respond(c, err)
	}
	defer f.Close()

	p, err := h.svc.UploadImage(c.Request().Context(), middleware.UserID(c), service.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
