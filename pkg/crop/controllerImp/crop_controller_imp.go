package controllerImp

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"greenhouse/entities"
	"greenhouse/pkg/apierr"
	"greenhouse/pkg/care"
	"greenhouse/pkg/crop/service"
	"greenhouse/pkg/middleware"
)

type CropCtrl struct{ svc service.CropService }

func New(svc service.CropService) *CropCtrl { return &CropCtrl{svc} }

type activityView struct {
	Schedule string  `json:"schedule"`
	Last     *string `json:"last"`
	Next     *string `json:"next"`
}

type cropView struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	Variety          string                  `json:"variety"`
	PlantedDate      string                  `json:"planted_date"`
	GrowthStage      string                  `json:"growth_stage"`
	GrowthPercentage int                     `json:"growth_percentage"`
	GrowthColor      string                  `json:"growth_color"`
	Care             map[string]activityView `json:"care"`
	Notes            string                  `json:"notes"`
	Image            string                  `json:"image"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

func dateStr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(care.DateLayout)
	return &s
}

func toView(c *entities.Crop) cropView {
	v := cropView{
		ID:               c.ID,
		Name:             c.Name,
		Variety:          c.Variety,
		PlantedDate:      c.PlantedDate.UTC().Format(care.DateLayout),
		GrowthStage:      c.GrowthStage,
		GrowthPercentage: c.GrowthPercentage,
		GrowthColor:      care.LookupStage(c.GrowthStage).Color,
		Care:             map[string]activityView{},
		Notes:            c.Notes,
		Image:            c.Image,
		UpdatedAt:        c.UpdatedAt,
	}
	for _, a := range care.Activities() {
		e := c.Entry(a)
		v.Care[string(a)] = activityView{Schedule: e.Schedule, Last: dateStr(e.Last), Next: dateStr(e.Next)}
	}
	return v
}

func (h *CropCtrl) Create(c echo.Context) error {
	var req service.CreateCropInput
	if err := c.Bind(&req); err != nil {
		return apierr.BadJSON(c)
	}
	crop, err := h.svc.Create(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, toView(crop))
}

func (h *CropCtrl) List(c echo.Context) error {
	crops, err := h.svc.List(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	out := make([]cropView, 0, len(crops))
	for i := range crops {
		out = append(out, toView(&crops[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CropCtrl) Get(c echo.Context) error {
	crop, err := h.svc.Get(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, toView(crop))
}

func (h *CropCtrl) Patch(c echo.Context) error {
	var req service.UpdateCropInput
	if err := c.Bind(&req); err != nil {
		return apierr.BadJSON(c)
	}
	crop, err := h.svc.Update(c.Request().Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, toView(crop))
}

func (h *CropCtrl) Log(c echo.Context) error {
	var body struct {
		Activity string `json:"activity"`
	}
	if err := c.Bind(&body); err != nil {
		return apierr.BadJSON(c)
	}
	a, err := care.ParseActivity(body.Activity)
	if err != nil {
		return apierr.Respond(c, apierr.Validation(err.Error(), map[string]string{"activity": "watering, pruning or fertilization"}))
	}
	crop, err := h.svc.LogActivity(c.Request().Context(), middleware.UserID(c), c.Param("id"), a)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, toView(crop))
}

func (h *CropCtrl) History(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	out, err := h.svc.History(c.Request().Context(), middleware.UserID(c), c.Param("id"), limit)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CropCtrl) Export(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.svc.ExportCalendar(c.Request().Context(), middleware.UserID(c), &buf); err != nil {
		return apierr.Respond(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="care-calendar.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
