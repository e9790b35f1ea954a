package controllerImp

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"greenhouse/pkg/apierr"
	"greenhouse/pkg/care"
	"greenhouse/pkg/climate"
	"greenhouse/pkg/sensor"
	"greenhouse/pkg/sensor/repository"
)

type SensorCtrl struct {
	repo repository.SensorRepository
	eval *climate.Evaluator
	hub  *sensor.Hub
}

func New(repo repository.SensorRepository, eval *climate.Evaluator, hub *sensor.Hub) *SensorCtrl {
	return &SensorCtrl{repo: repo, eval: eval, hub: hub}
}

func (h *SensorCtrl) latest(c echo.Context) (*sensor.Update, error) {
	r, err := h.repo.Latest(c.Request().Context())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("sensor reading")
	}
	if err != nil {
		return nil, err
	}
	return &sensor.Update{Type: "reading", Reading: *r, Assessment: h.eval.Assess(r.Reading())}, nil
}

func (h *SensorCtrl) Latest(c echo.Context) error {
	u, err := h.latest(c)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func boundedInt(raw string, def, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func (h *SensorCtrl) History(c echo.Context) error {
	minutes := boundedInt(c.QueryParam("minutes"), 60, 7*24*60)
	out, err := h.repo.Since(c.Request().Context(), time.Now().Add(-time.Duration(minutes)*time.Minute))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Stream sends the latest reading on connect, then every new sample.
func (h *SensorCtrl) Stream(c echo.Context) error {
	var hello any
	if u, err := h.latest(c); err == nil {
		hello = u
	}
	if err := h.hub.Serve(c.Response(), c.Request(), hello); err != nil {
		return apierr.Respond(c, apierr.Validation("websocket upgrade failed", err.Error()))
	}
	return nil
}

func (h *SensorCtrl) Alerts(c echo.Context) error {
	limit := boundedInt(c.QueryParam("limit"), 20, 200)
	out, err := h.repo.RecentAlerts(c.Request().Context(), limit)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SensorCtrl) Thresholds(c echo.Context) error {
	colors := map[climate.Tier]string{}
	for _, t := range []climate.Tier{climate.Normal, climate.Warning, climate.Critical} {
		colors[t] = t.Color()
	}
	return c.JSON(http.StatusOK, map[string]any{"bands": h.eval.Bands(), "colors": colors})
}

func (h *SensorCtrl) GrowthStages(c echo.Context) error {
	return c.JSON(http.StatusOK, care.Stages())
}
