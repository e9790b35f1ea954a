package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"greenhouse/config"
	"greenhouse/database"
	"greenhouse/pkg/apierr"
	"greenhouse/pkg/climate"
	"greenhouse/pkg/jobs"
	"greenhouse/pkg/logging"
	"greenhouse/pkg/notify"
	"greenhouse/pkg/sensor"
	"greenhouse/pkg/storage"
	"greenhouse/pkg/weather"
	"greenhouse/router"

	authCtrlImp "greenhouse/pkg/auth/controllerImp"
	authRepository "greenhouse/pkg/auth/repository"
	authRepoImp "greenhouse/pkg/auth/repositoryImp"
	authService "greenhouse/pkg/auth/service"
	authSvcImp "greenhouse/pkg/auth/serviceImp"

	profileCtrlImp "greenhouse/pkg/profile/controllerImp"
	profileRepoImp "greenhouse/pkg/profile/repositoryImp"
	profileSvcImp "greenhouse/pkg/profile/serviceImp"

	cropCtrlImp "greenhouse/pkg/crop/controllerImp"
	cropRepoImp "greenhouse/pkg/crop/repositoryImp"
	cropSvcImp "greenhouse/pkg/crop/serviceImp"

	controlCtrlImp "greenhouse/pkg/control/controllerImp"
	controlRepoImp "greenhouse/pkg/control/repositoryImp"
	controlSvcImp "greenhouse/pkg/control/serviceImp"

	sensorCtrlImp "greenhouse/pkg/sensor/controllerImp"
	sensorRepoImp "greenhouse/pkg/sensor/repositoryImp"

	weatherCtrlImp "greenhouse/pkg/weather/controllerImp"

	healthCtrlImp "greenhouse/pkg/health/controllerImp"
)

const shutdownTimeout = 10 * time.Second

func serve(parent context.Context) error {
	cfg, log, err := boot()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	log.Info("config", zap.Any("cfg", cfg.Redacted()))

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1) DB
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}
	loc := cfg.Location()

	// 2) Thresholds
	eval := climate.NewEvaluator()
	if cfg.ThresholdsFile != "" {
		if e, err := climate.LoadFromFile(cfg.ThresholdsFile); err != nil {
			log.Warn("thresholds file ignored", zap.String("file", cfg.ThresholdsFile), zap.Error(err))
		} else {
			eval = e
		}
	}

	// 3) Auth + profile
	profileRepo := profileRepoImp.New(db)
	authSvc := authSvcImp.NewAuthService(authProvider(cfg, authRepoImp.New(db), log), profileRepo, log)
	profileSvc := profileSvcImp.NewProfileService(profileRepo, objectStore(cfg, log), log)

	// 4) Crops + control
	cropSvc := cropSvcImp.NewCropService(cropRepoImp.New(db), loc, log)
	sensorRepo := sensorRepoImp.New(db)
	controlSvc := controlSvcImp.NewControlService(controlRepoImp.New(db), sensorRepo, eval, loc, log)

	// 5) Weather
	weatherSvc := weather.NewService(
		weather.NewClient(cfg.WeatherEndpoint, cfg.WeatherAPIKey),
		weatherCache(ctx, cfg, log),
		eval, log,
		weather.Options{DefaultLocation: cfg.WeatherDefaultLocation},
	)

	// 6) Sensors
	hub := sensor.NewHub(originCheck(cfg.CORSOrigins), log)
	var sinks []sensor.Sink
	if cfg.InfluxURL != "" {
		sinks = append(sinks, sensor.NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket))
		log.Info("influx sink enabled", zap.String("bucket", cfg.InfluxBucket))
	}
	sampler := sensor.NewSampler(
		sensor.NewSimulator(rand.New(rand.NewSource(time.Now().UnixNano()))),
		eval, sensorRepo,
		sensor.NewAlerter(sensorRepo, notifier(cfg, log), log),
		hub, log, sinks...,
	)

	// 7) Jobs
	sched := jobs.New(log)
	if err := sched.Add("weather-poll", cfg.WeatherPollSpec, weatherSvc.PollJob(profileRepo.Locations)); err != nil {
		return err
	}
	sampleJob := sampler.Job()
	if err := sched.Add("sensor-sample", cfg.SensorSampleSpec, sampleJob); err != nil {
		return err
	}
	sampleJob(ctx)
	sched.Start()

	// 8) HTTP
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apierr.ErrorHandler
	e.Use(echoMiddleware.Recover())
	e.Use(logging.RequestLogger(log))
	router.New(e, router.Handlers{
		Auth:    authCtrlImp.NewAuthController(authSvc),
		Profile: profileCtrlImp.New(profileSvc),
		Crop:    cropCtrlImp.New(cropSvc),
		Weather: weatherCtrlImp.New(weatherSvc, profileSvc),
		Sensor:  sensorCtrlImp.New(sensorRepo, eval, hub),
		Control: controlCtrlImp.New(controlSvc),
		Health:  healthCtrlImp.NewHealthCtrl(db, weatherSvc),
	}, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		UploadDir:   uploadDir(cfg),
		DevLogin:    cfg.EnableDevLogin,
		Verifier:    authSvc,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err = <-errCh:
	}

	sdCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if serr := e.Shutdown(sdCtx); serr != nil {
		log.Warn("http shutdown", zap.Error(serr))
	}
	if serr := sched.Stop(sdCtx); serr != nil {
		log.Warn("jobs shutdown", zap.Error(serr))
	}
	hub.Close()
	sampler.Close()
	if sqlDB, derr := db.DB(); derr == nil {
		_ = sqlDB.Close()
	}
	return err
}

func authProvider(cfg config.AppConfig, accounts authRepository.AccountRepository, log *zap.Logger) authService.Provider {
	if cfg.AuthProvider == "supabase" && cfg.SupabaseURL != "" {
		return authSvcImp.NewSupabaseProvider(cfg.SupabaseURL, cfg.SupabaseAnonKey, log)
	}
	return authSvcImp.NewLocalProvider(accounts, cfg.JWTSecret, cfg.SessionTTL, log)
}

func uploadDir(cfg config.AppConfig) string {
	if cfg.AuthProvider == "supabase" && cfg.SupabaseURL != "" {
		return ""
	}
	return cfg.UploadDir
}

func objectStore(cfg config.AppConfig, log *zap.Logger) storage.ObjectStore {
	if uploadDir(cfg) == "" {
		return storage.NewSupabase(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.StorageBucket)
	}
	log.Info("profile images on disk", zap.String("dir", cfg.UploadDir))
	return storage.NewDisk(cfg.UploadDir, cfg.PublicBaseURL)
}

func weatherCache(ctx context.Context, cfg config.AppConfig, log *zap.Logger) weather.Cache {
	if cfg.RedisAddr == "" {
		return weather.NewMemoryCache(cfg.WeatherCacheTTL)
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, caching weather in memory", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = rdb.Close()
		return weather.NewMemoryCache(cfg.WeatherCacheTTL)
	}
	return weather.NewRedisCache(rdb, cfg.WeatherCacheTTL)
}

func notifier(cfg config.AppConfig, log *zap.Logger) notify.Notifier {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == 0 {
		return notify.NewLog(log)
	}
	n, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, log)
	if err != nil {
		log.Warn("telegram disabled", zap.Error(err))
		return notify.NewLog(log)
	}
	return n
}

// originCheck mirrors CORS_ORIGINS for websocket upgrades. Empty allows all.
func originCheck(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return nil
	}
	return func(r *http.Request) bool {
		o := r.Header.Get("Origin")
		return o == "" || slices.Contains(origins, o)
	}
}
