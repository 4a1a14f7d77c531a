package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/rhythm-forecast/internal/weather"
)

type AppConfig struct {
	Port string

	// SampleProvider selects the upstream forecast API.
	SampleProvider    string
	WeatherAPIKey     string
	OpenWeatherAPIKey string
	GeocoderAPIKey    string
	HTTPTimeout       time.Duration

	// Rhythm holds the default forecast options.
	Rhythm weather.Options

	// TrackedCities are refreshed every RefreshInterval.
	TrackedCities   []string
	RefreshInterval time.Duration

	// In-memory store retention.
	StoreMaxHistory int           // max reports per city (0 = unlimited)
	StoreMaxAge     time.Duration // max report age (0 = unlimited)

	// Optional Redis response cache; disabled when RedisAddr is empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Optional report publication; disabled when KafkaBrokers is empty.
	KafkaBrokers     []string
	KafkaReportTopic string

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment with sensible defaults.
// The caller is expected to have loaded any .env file beforehand.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:              getenvDefault("PORT", "8080"),
		WeatherAPIKey:     os.Getenv("WEATHERAPI_API_KEY"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		GeocoderAPIKey:    os.Getenv("GEOCODER_API_KEY"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaReportTopic:  getenvDefault("KAFKA_REPORT_TOPIC", "rhythm-reports"),
		TrackedCities:     splitList(getenvDefault("TRACKED_CITIES", "Seoul")),
		LogLevel:          getenvDefault("LOG_LEVEL", "info"),
		LogFormat:         getenvDefault("LOG_FORMAT", "json"),
	}

	var err error

	cfg.SampleProvider = strings.ToLower(getenvDefault("SAMPLE_PROVIDER", "weatherapi"))
	switch cfg.SampleProvider {
	case "weatherapi":
		if cfg.WeatherAPIKey == "" {
			return nil, fmt.Errorf("WEATHERAPI_API_KEY is required when SAMPLE_PROVIDER=weatherapi")
		}
	case "openweather":
		if cfg.OpenWeatherAPIKey == "" {
			return nil, fmt.Errorf("OPENWEATHER_API_KEY is required when SAMPLE_PROVIDER=openweather")
		}
	case "openmeteo":
	default:
		return nil, fmt.Errorf("invalid SAMPLE_PROVIDER %q", cfg.SampleProvider)
	}

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.StoreMaxHistory, err = getenvInt("STORE_MAX_HISTORY", 48); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getenvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	if cfg.Rhythm, err = loadRhythmOptions(); err != nil {
		return nil, err
	}
	if len(cfg.TrackedCities) == 0 {
		return nil, fmt.Errorf("TRACKED_CITIES must name at least one city")
	}

	return cfg, nil
}

func loadRhythmOptions() (weather.Options, error) {
	def := weather.DefaultOptions()
	var (
		o   weather.Options
		err error
	)

	if o.Reducer, err = weather.ParseReducer(getenvDefault("RHYTHM_REDUCER", string(def.Reducer))); err != nil {
		return o, fmt.Errorf("invalid RHYTHM_REDUCER: %w", err)
	}
	if o.Strategy, err = weather.ParseStrategy(getenvDefault("RHYTHM_SCORER", string(def.Strategy))); err != nil {
		return o, fmt.Errorf("invalid RHYTHM_SCORER: %w", err)
	}
	if o.ZetaCorrection, err = getenvBool("RHYTHM_ZETA_CORRECTION", false); err != nil {
		return o, err
	}
	if o.SmoothScores, err = getenvBool("RHYTHM_SMOOTH_SCORES", false); err != nil {
		return o, err
	}
	if o.Smoothing, err = weather.ParseSmoothingMode(getenvDefault("RHYTHM_SMOOTHING", string(def.Smoothing))); err != nil {
		return o, fmt.Errorf("invalid RHYTHM_SMOOTHING: %w", err)
	}
	if o.HourlyTier, err = weather.ParseTier(getenvDefault("RHYTHM_HOURLY_TIER", string(def.HourlyTier))); err != nil {
		return o, fmt.Errorf("invalid RHYTHM_HOURLY_TIER: %w", err)
	}
	if o.Grid, err = weather.ParseGridPattern(getenvDefault("RHYTHM_GRID", string(def.Grid))); err != nil {
		return o, fmt.Errorf("invalid RHYTHM_GRID: %w", err)
	}

	if o.Alpha, err = getenvFloat("RHYTHM_EMA_ALPHA", def.Alpha); err != nil {
		return o, err
	}
	if o.Alpha <= 0 || o.Alpha > 1 {
		return o, fmt.Errorf("invalid RHYTHM_EMA_ALPHA: %v not in (0, 1]", o.Alpha)
	}
	if o.GridOffset, err = getenvFloat("RHYTHM_GRID_OFFSET", def.GridOffset); err != nil {
		return o, err
	}
	if o.GridOffset < 0.01 || o.GridOffset > 0.1 {
		return o, fmt.Errorf("invalid RHYTHM_GRID_OFFSET: %v not in [0.01, 0.1]", o.GridOffset)
	}
	if o.Hours, err = getenvInt("HOURLY_HORIZON", def.Hours); err != nil {
		return o, err
	}
	if o.Hours < 1 || o.Hours > 48 {
		return o, fmt.Errorf("invalid HOURLY_HORIZON: %d not in [1, 48]", o.Hours)
	}
	if o.Days, err = getenvInt("FORECAST_DAYS", def.Days); err != nil {
		return o, err
	}
	if o.Days < 1 || o.Days > 14 {
		return o, fmt.Errorf("invalid FORECAST_DAYS: %d not in [1, 14]", o.Days)
	}

	return o, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
