package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/i474232898/rhythm-forecast/internal/api/http"
	"github.com/i474232898/rhythm-forecast/internal/config"
	"github.com/i474232898/rhythm-forecast/internal/observability"
	"github.com/i474232898/rhythm-forecast/internal/publish"
	"github.com/i474232898/rhythm-forecast/internal/registry"
	"github.com/i474232898/rhythm-forecast/internal/scheduler"
	"github.com/i474232898/rhythm-forecast/internal/store"
	"github.com/i474232898/rhythm-forecast/internal/weather"
	"github.com/i474232898/rhythm-forecast/internal/weather/providers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slogger := observability.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(slogger)
	metrics := observability.NewMetrics()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var source weather.SampleSource
	switch cfg.SampleProvider {
	case "openmeteo":
		source = providers.NewOpenMeteoProvider(httpClient)
	case "openweather":
		source = providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey)
	default:
		source = providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey)
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		source = providers.NewCachedSource(source, rdb, cfg.CacheTTL, slogger, metrics)
		slogger.Info("provider cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}

	svcOpts := []weather.ServiceOption{
		weather.WithLogger(slogger),
		weather.WithMetrics(metrics),
	}
	if len(cfg.KafkaBrokers) > 0 {
		pub, err := publish.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaReportTopic, slogger)
		if err != nil {
			log.Fatalf("failed to create kafka publisher: %v", err)
		}
		defer pub.Close()
		svcOpts = append(svcOpts, weather.WithPublisher(pub))
		slogger.Info("report publication enabled", "topic", cfg.KafkaReportTopic)
	}

	var geocode registry.GeocodeFunc
	if cfg.GeocoderAPIKey != "" {
		geocode = registry.KelvinsGeocoder(cfg.GeocoderAPIKey)
	}
	cities := registry.New(registry.DefaultCities(), geocode)

	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	service := weather.NewService(source, memStore, cfg.Rhythm, svcOpts...)

	var tracked []weather.City
	for _, name := range cfg.TrackedCities {
		city, err := cities.Lookup(name)
		if err != nil {
			slogger.Warn("skipping tracked city", "city", name, "error", err)
			continue
		}
		tracked = append(tracked, city)
	}

	sched := scheduler.New(tracked, cfg.RefreshInterval, service, slogger)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "rhythm-forecast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "rhythm-forecast",
			"source":  source.Name(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, service, cities)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			slogger.Error("fiber server stopped", "error", err)
		}
	}()
	slogger.Info("rhythm-forecast listening", "port", cfg.Port, "source", source.Name(), "tracked", len(tracked))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slogger.Error("error during shutdown", "error", err)
	}
}
