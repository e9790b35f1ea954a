package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port           string
	Timezone       string
	DBPath         string
	LogLevel       string
	LogFormat      string
	CORSOrigins    []string
	EnableDevLogin bool

	AuthProvider    string
	JWTSecret       string
	SessionTTL      time.Duration
	SupabaseURL     string
	SupabaseAnonKey string

	StorageBucket string
	UploadDir     string
	PublicBaseURL string

	WeatherEndpoint        string
	WeatherAPIKey          string
	WeatherDefaultLocation string
	WeatherPollSpec        string
	WeatherCacheTTL        time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SensorSampleSpec string
	InfluxURL        string
	InfluxToken      string
	InfluxOrg        string
	InfluxBucket     string

	TelegramToken  string
	TelegramChatID int64

	ThresholdsFile string
}

// Location resolves Timezone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("[cfg] bad TZ %q: %v, using UTC", c.Timezone, err)
		return time.UTC
	}
	return loc
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function so tests can feed a map.
func FromEnv(getenv func(string) string) AppConfig {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}
	dur := func(k string, def time.Duration) time.Duration {
		if d, err := time.ParseDuration(get(k, "")); err == nil && d > 0 {
			return d
		}
		return def
	}
	num := func(k string) int64 {
		n, _ := strconv.ParseInt(get(k, "0"), 10, 64)
		return n
	}

	var origins []string
	for _, o := range strings.Split(get("CORS_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return AppConfig{
		Port:           get("PORT", "8080"),
		Timezone:       get("TZ", "Asia/Bangkok"),
		DBPath:         get("DB_PATH", "greenhouse.db"),
		LogLevel:       get("LOG_LEVEL", "info"),
		LogFormat:      get("LOG_FORMAT", "json"),
		CORSOrigins:    origins,
		EnableDevLogin: get("ENABLE_DEV_LOGIN", "false") == "true",

		AuthProvider:    strings.ToLower(get("AUTH_PROVIDER", "local")),
		JWTSecret:       get("JWT_SECRET", ""),
		SessionTTL:      dur("SESSION_TTL", 24*time.Hour),
		SupabaseURL:     strings.TrimRight(get("SUPABASE_URL", ""), "/"),
		SupabaseAnonKey: get("SUPABASE_ANON_KEY", ""),

		StorageBucket: get("STORAGE_BUCKET", "profile-images"),
		UploadDir:     get("UPLOAD_DIR", "uploads"),
		PublicBaseURL: strings.TrimRight(get("PUBLIC_BASE_URL", ""), "/"),

		WeatherEndpoint:        strings.TrimRight(get("WEATHER_ENDPOINT", "https://api.openweathermap.org"), "/"),
		WeatherAPIKey:          get("WEATHER_API_KEY", ""),
		WeatherDefaultLocation: get("WEATHER_DEFAULT_LOCATION", "New York"),
		WeatherPollSpec:        get("WEATHER_POLL_SPEC", "@every 15m"),
		WeatherCacheTTL:        dur("WEATHER_CACHE_TTL", time.Hour),

		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),
		RedisDB:       int(num("REDIS_DB")),

		SensorSampleSpec: get("SENSOR_SAMPLE_SPEC", "@every 5s"),
		InfluxURL:        get("INFLUXDB_URL", ""),
		InfluxToken:      get("INFLUXDB_TOKEN", ""),
		InfluxOrg:        get("INFLUXDB_ORG", ""),
		InfluxBucket:     get("INFLUXDB_BUCKET", "greenhouse"),

		TelegramToken:  get("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: num("TELEGRAM_CHAT_ID"),

		ThresholdsFile: get("THRESHOLDS_FILE", ""),
	}
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

// Redacted is safe to log.
func (c AppConfig) Redacted() AppConfig {
	c.JWTSecret = mask(c.JWTSecret)
	c.SupabaseAnonKey = mask(c.SupabaseAnonKey)
	c.WeatherAPIKey = mask(c.WeatherAPIKey)
	c.RedisPassword = mask(c.RedisPassword)
	c.InfluxToken = mask(c.InfluxToken)
	c.TelegramToken = mask(c.TelegramToken)
	return c
}
