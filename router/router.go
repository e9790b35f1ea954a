package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	authCtrl "greenhouse/pkg/auth/controller"
	controlCtrl "greenhouse/pkg/control/controller"
	cropCtrl "greenhouse/pkg/crop/controller"
	"greenhouse/pkg/middleware"
	profileCtrl "greenhouse/pkg/profile/controller"
)

type Handlers struct {
	Auth    authCtrl.AuthController
	Profile profileCtrl.ProfileController
	Crop    cropCtrl.CropController
	Weather interface {
		Current(echo.Context) error
		Forecast(echo.Context) error
	}
	Sensor interface {
		Latest(echo.Context) error
		History(echo.Context) error
		Stream(echo.Context) error
		Alerts(echo.Context) error
		Thresholds(echo.Context) error
		GrowthStages(echo.Context) error
	}
	Control controlCtrl.ControlController
	Health  interface{ Health(echo.Context) error }
}

type Options struct {
	CORSOrigins []string
	UploadDir   string
	// DevLogin swaps session checks for the cookie based dev login.
	DevLogin bool
	Verifier middleware.Verifier
}

func New(e *echo.Echo, h Handlers, opt Options) *echo.Echo {
	if len(opt.CORSOrigins) > 0 {
		e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
			AllowOrigins: opt.CORSOrigins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}
	if opt.UploadDir != "" {
		e.Static("/uploads", opt.UploadDir)
	}

	e.GET("/health", h.Health.Health)
	e.GET("/thresholds", h.Sensor.Thresholds)
	e.GET("/growth-stages", h.Sensor.GrowthStages)

	pub := e.Group("/auth")
	pub.POST("/signup", h.Auth.SignUp)
	pub.POST("/login", h.Auth.Login)
	pub.POST("/logout", h.Auth.Logout)
	pub.POST("/reset", h.Auth.Reset)
	pub.POST("/reset/confirm", h.Auth.ConfirmReset)
	pub.GET("/oauth/:provider", h.Auth.OAuth)

	var api *echo.Group
	if opt.DevLogin {
		api = e.Group("", middleware.DevLogin())
		api.GET("/devlogin", h.Auth.DevLogin)
	} else {
		api = e.Group("", middleware.Session(opt.Verifier))
	}
	api.GET("/auth/whoami", h.Auth.WhoAmI)

	api.GET("/profile", h.Profile.Get)
	api.PUT("/profile", h.Profile.Update)
	api.POST("/profile/image", h.Profile.UploadImage)

	api.POST("/crops", h.Crop.Create)
	api.GET("/crops", h.Crop.List)
	api.GET("/crops/export.xlsx", h.Crop.Export)
	api.GET("/crops/:id", h.Crop.Get)
	api.PATCH("/crops/:id", h.Crop.Patch)
	api.POST("/crops/:id/log", h.Crop.Log)
	api.GET("/crops/:id/history", h.Crop.History)

	api.GET("/weather", h.Weather.Current)
	api.GET("/weather/forecast", h.Weather.Forecast)

	api.GET("/sensors/latest", h.Sensor.Latest)
	api.GET("/sensors/history", h.Sensor.History)
	api.GET("/sensors/stream", h.Sensor.Stream)
	api.GET("/alerts", h.Sensor.Alerts)

	api.GET("/control/zones", h.Control.Zones)
	api.PATCH("/control/zones/:id", h.Control.PatchZone)
	api.GET("/control/settings", h.Control.Settings)
	api.PUT("/control/settings", h.Control.PutSettings)
	api.GET("/control/effective", h.Control.Effective)
	return e
}
