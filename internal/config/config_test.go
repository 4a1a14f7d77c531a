package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/rhythm-forecast/internal/weather"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WEATHERAPI_API_KEY", "k")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "weatherapi", cfg.SampleProvider)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 48, cfg.StoreMaxHistory)
	assert.Equal(t, 24*time.Hour, cfg.StoreMaxAge)
	assert.Equal(t, []string{"Seoul"}, cfg.TrackedCities)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "rhythm-reports", cfg.KafkaReportTopic)
	assert.Equal(t, weather.DefaultOptions(), cfg.Rhythm)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SAMPLE_PROVIDER", "OpenMeteo")
	t.Setenv("RHYTHM_REDUCER", "median")
	t.Setenv("RHYTHM_SCORER", "gaussian")
	t.Setenv("RHYTHM_ZETA_CORRECTION", "true")
	t.Setenv("RHYTHM_SMOOTHING", "ema")
	t.Setenv("RHYTHM_EMA_ALPHA", "0.5")
	t.Setenv("RHYTHM_SMOOTH_SCORES", "1")
	t.Setenv("RHYTHM_GRID", "square")
	t.Setenv("HOURLY_HORIZON", "24")
	t.Setenv("FORECAST_DAYS", "7")
	t.Setenv("TRACKED_CITIES", " Seoul, Osaka ,,Busan")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openmeteo", cfg.SampleProvider)
	assert.Equal(t, weather.ReducerMedian, cfg.Rhythm.Reducer)
	assert.Equal(t, weather.StrategyGaussian, cfg.Rhythm.Strategy)
	assert.True(t, cfg.Rhythm.ZetaCorrection)
	assert.Equal(t, weather.SmoothingEMA, cfg.Rhythm.Smoothing)
	assert.Equal(t, 0.5, cfg.Rhythm.Alpha)
	assert.True(t, cfg.Rhythm.SmoothScores)
	assert.Equal(t, weather.GridSquare, cfg.Rhythm.Grid)
	assert.Equal(t, 24, cfg.Rhythm.Hours)
	assert.Equal(t, 7, cfg.Rhythm.Days)
	assert.Equal(t, []string{"Seoul", "Osaka", "Busan"}, cfg.TrackedCities)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing weatherapi key", map[string]string{}, "WEATHERAPI_API_KEY"},
		{"missing openweather key", map[string]string{"SAMPLE_PROVIDER": "openweather"}, "OPENWEATHER_API_KEY"},
		{"unknown provider", map[string]string{"SAMPLE_PROVIDER": "darksky"}, "SAMPLE_PROVIDER"},
		{"reducer", map[string]string{"SAMPLE_PROVIDER": "openmeteo", "RHYTHM_REDUCER": "mode"}, "RHYTHM_REDUCER"},
		{"scorer", map[string]string{"SAMPLE_PROVIDER": "openmeteo", "RHYTHM_SCORER": "cubic"}, "RHYTHM_SCORER"},
		{"alpha range", map[string]string{"SAMPLE_PROVIDER": "openmeteo", "RHYTHM_EMA_ALPHA": "1.5"}, "RHYTHM_EMA_ALPHA"},
		{"alpha parse", map[string]string{"SAMPLE_PROVIDER": "openmeteo", "RHYTHM_EMA_ALPHA": "abc"}, "RHYTHM_EMA_ALPHA"},
		{"offset range", map[string]string{"SAMPLE_PROVIDER": "openmeteo", "RHYTHM_GRID_OFFSET": "0.5"}, "RHYTHM_GRID_OFFSET"},
		{"days range", map[string]string{"SAMPLE_PROVIDER": "openmeteo", "FORECAST_DAYS": "30"}, "FORECAST_DAYS"},
		{"interval", map[string]string{"SAMPLE_PROVIDER": "openmeteo", "REFRESH_INTERVAL": "often"}, "REFRESH_INTERVAL"},
		{"zeta flag", map[string]string{"SAMPLE_PROVIDER": "openmeteo", "RHYTHM_ZETA_CORRECTION": "maybe"}, "RHYTHM_ZETA_CORRECTION"},
		{"smooth scores flag", map[string]string{"SAMPLE_PROVIDER": "openmeteo", "RHYTHM_SMOOTH_SCORES": "sometimes"}, "RHYTHM_SMOOTH_SCORES"},
		{"history", map[string]string{"SAMPLE_PROVIDER": "openmeteo", "STORE_MAX_HISTORY": "many"}, "STORE_MAX_HISTORY"},
		{"no cities", map[string]string{"SAMPLE_PROVIDER": "openmeteo", "TRACKED_CITIES": " , "}, "TRACKED_CITIES"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("WEATHERAPI_API_KEY", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
