package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"greenhouse/database/dbtest"
	"greenhouse/pkg/apierr"
	"greenhouse/pkg/climate"
	"greenhouse/pkg/sensor"
	"greenhouse/pkg/storage"
	"greenhouse/pkg/weather"
	"greenhouse/router"

	authCtrlImp "greenhouse/pkg/auth/controllerImp"
	authRepoImp "greenhouse/pkg/auth/repositoryImp"
	authSvcImp "greenhouse/pkg/auth/serviceImp"
	controlCtrlImp "greenhouse/pkg/control/controllerImp"
	controlRepoImp "greenhouse/pkg/control/repositoryImp"
	controlSvcImp "greenhouse/pkg/control/serviceImp"
	cropCtrlImp "greenhouse/pkg/crop/controllerImp"
	cropRepoImp "greenhouse/pkg/crop/repositoryImp"
	cropSvcImp "greenhouse/pkg/crop/serviceImp"
	healthCtrlImp "greenhouse/pkg/health/controllerImp"
	profileCtrlImp "greenhouse/pkg/profile/controllerImp"
	profileRepoImp "greenhouse/pkg/profile/repositoryImp"
	profileSvcImp "greenhouse/pkg/profile/serviceImp"
	sensorCtrlImp "greenhouse/pkg/sensor/controllerImp"
	sensorRepoImp "greenhouse/pkg/sensor/repositoryImp"
	weatherCtrlImp "greenhouse/pkg/weather/controllerImp"
)

func app(t *testing.T) *echo.Echo {
	t.Helper()
	db := dbtest.New(t)
	log := zap.NewNop()
	eval := climate.NewEvaluator()

	profileRepo := profileRepoImp.New(db)
	authSvc := authSvcImp.NewAuthService(
		authSvcImp.NewLocalProvider(authRepoImp.New(db), "router-test", time.Hour, log), profileRepo, log)
	profileSvc := profileSvcImp.NewProfileService(profileRepo, storage.NewDisk(t.TempDir(), ""), log)
	sensorRepo := sensorRepoImp.New(db)
	weatherSvc := weather.NewService(weather.NewClient("http://127.0.0.1:1", ""), weather.NewMemoryCache(time.Minute), eval, log, weather.Options{})
	hub := sensor.NewHub(nil, log)
	t.Cleanup(hub.Close)

	e := echo.New()
	e.HTTPErrorHandler = apierr.ErrorHandler
	return router.New(e, router.Handlers{
		Auth:    authCtrlImp.NewAuthController(authSvc),
		Profile: profileCtrlImp.New(profileSvc),
		Crop:    cropCtrlImp.New(cropSvcImp.NewCropService(cropRepoImp.New(db), time.UTC, log)),
		Weather: weatherCtrlImp.New(weatherSvc, profileSvc),
		Sensor:  sensorCtrlImp.New(sensorRepo, eval, hub),
		Control: controlCtrlImp.New(controlSvcImp.NewControlService(controlRepoImp.New(db), sensorRepo, eval, time.UTC, log)),
		Health:  healthCtrlImp.NewHealthCtrl(db, weatherSvc),
	}, router.Options{Verifier: authSvc})
}

func call(t *testing.T, e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestPublicRoutes(t *testing.T) {
	e := app(t)
	assert.Equal(t, http.StatusOK, call(t, e, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, call(t, e, http.MethodGet, "/thresholds", "", "").Code)
	assert.Equal(t, http.StatusOK, call(t, e, http.MethodGet, "/growth-stages", "", "").Code)

	rec := call(t, e, http.MethodGet, "/crops", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decode(t, rec)["code"])

	rec = call(t, e, http.MethodPost, "/auth/reset/confirm", "", `{"token":"nope","password":"secret2","confirm_password":"secret2"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = call(t, e, http.MethodPost, "/auth/reset/confirm", "", `{"token":"nope","password":"abc","confirm_password":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignUpToCareLog(t *testing.T) {
	e := app(t)

	rec := call(t, e, http.MethodPost, "/auth/signup", "", `{"name":"Mali","email":"mali@example.com","password":"secret1",
		"confirm_password":"secret1","gender":"female","mobile":"0812345678","location":"Chiang Mai"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = call(t, e, http.MethodPost, "/auth/login", "", `{"email":"mali@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := decode(t, rec)["access_token"].(string)
	require.NotEmpty(t, token)

	rec = call(t, e, http.MethodGet, "/profile", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Chiang Mai", decode(t, rec)["location"])

	rec = call(t, e, http.MethodPost, "/crops", token, `{"name":"Tomato","planted_date":"2023-10-01",
		"growth_stage":"Seedling","watering_schedule":"Daily","pruning_schedule":"Never","fertilization_schedule":"Monthly"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	crop := decode(t, rec)
	id, _ := crop["id"].(string)
	assert.Equal(t, "lime", crop["growth_color"])

	rec = call(t, e, http.MethodPost, "/crops/"+id+"/log", token, `{"activity":"watering"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	care := decode(t, rec)["care"].(map[string]any)["watering"].(map[string]any)
	assert.NotNil(t, care["last"])

	rec = call(t, e, http.MethodPost, "/crops/"+id+"/log", token, `{"activity":"mowing"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, e, http.MethodGet, "/crops/export.xlsx", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "care-calendar.xlsx")

	rec = call(t, e, http.MethodGet, "/weather", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	w := decode(t, rec)
	assert.Equal(t, true, w["synthetic"])
	assert.Equal(t, "Chiang Mai", w["location"])

	rec = call(t, e, http.MethodGet, "/weather/forecast?location=Oslo", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	f := decode(t, rec)
	assert.Equal(t, "synthetic", f["source"])
	assert.Equal(t, "Oslo", f["location"])
	assert.Len(t, f["hours"], 40)

	rec = call(t, e, http.MethodGet, "/control/effective", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, http.StatusOK, call(t, e, http.MethodPost, "/auth/logout", token, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(t, e, http.MethodGet, "/crops", token, "").Code)
}
