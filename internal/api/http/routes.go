package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/rhythm-forecast/internal/registry"
	"github.com/i474232898/rhythm-forecast/internal/store"
	"github.com/i474232898/rhythm-forecast/internal/weather"
)

var validate = validator.New()

// ForecastService is the subset of weather.Service the routes need.
type ForecastService interface {
	Forecast(ctx context.Context, city weather.City, opts weather.Options) (weather.RhythmReport, error)
	Latest(city string) (weather.RhythmReport, error)
	History(city string, from, to time.Time) ([]weather.RhythmReport, error)
}

// CityResolver resolves city names; *registry.Registry implements it.
type CityResolver interface {
	Lookup(name string) (weather.City, error)
	List() []weather.City
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service ForecastService, cities CityResolver) {
	v1 := app.Group("/api/v1")

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"cities": cities.List()})
	})

	rhythm := v1.Group("/rhythm")

	rhythm.Get("/forecast", func(c *fiber.Ctx) error {
		var q forecastQuery
		if err := c.QueryParser(&q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		city, err := cities.Lookup(q.City)
		if err != nil {
			return toHTTPError(err)
		}

		report, err := service.Forecast(c.UserContext(), city, q.options())
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(report)
	})

	rhythm.Get("/latest", func(c *fiber.Ctx) error {
		q := cityQuery{City: c.Query("city")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		city, err := cities.Lookup(q.City)
		if err != nil {
			return toHTTPError(err)
		}

		report, err := service.Latest(city.Name)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(report)
	})

	rhythm.Get("/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		city, err := cities.Lookup(req.City.City)
		if err != nil {
			return toHTTPError(err)
		}

		reports, err := service.History(city.Name, req.From, req.To)
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(fiber.Map{
			"city":    city,
			"from":    req.From,
			"to":      req.To,
			"reports": reports,
		})
	})
}

// toHTTPError maps domain errors onto HTTP status codes.
func toHTTPError(err error) error {
	var shapeErr *weather.InputShapeError
	switch {
	case errors.Is(err, registry.ErrUnknownCity):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "no rhythm report for requested city")
	case errors.Is(err, weather.ErrInsufficientData), errors.As(err, &shapeErr):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build rhythm report")
	}
}

type cityQuery struct {
	City string `validate:"required"`
}

// forecastQuery holds the per-request overrides of the forecast defaults.
type forecastQuery struct {
	City         string  `query:"city" validate:"required"`
	Reducer      string  `query:"reducer" validate:"omitempty,oneof=mean median"`
	Scorer       string  `query:"scorer" validate:"omitempty,oneof=interaction gaussian linear"`
	Zeta         bool    `query:"zeta"`
	Smoothing    string  `query:"smoothing" validate:"omitempty,oneof=moving-average ema none"`
	Alpha        float64 `query:"alpha" validate:"omitempty,gt=0,lte=1"`
	SmoothScores bool    `query:"smooth_scores"`
	Tier         string  `query:"tier" validate:"omitempty,oneof=instant daily"`
	Grid         string  `query:"grid" validate:"omitempty,oneof=single cross square"`
	Hours        int     `query:"hours" validate:"omitempty,min=1,max=48"`
	Days         int     `query:"days" validate:"omitempty,min=1,max=14"`
}

func (q forecastQuery) options() weather.Options {
	return weather.Options{
		Reducer:        weather.Reducer(q.Reducer),
		Strategy:       weather.Strategy(q.Scorer),
		ZetaCorrection: q.Zeta,
		Smoothing:      weather.SmoothingMode(q.Smoothing),
		Alpha:          q.Alpha,
		SmoothScores:   q.SmoothScores,
		HourlyTier:     weather.Tier(q.Tier),
		Grid:           weather.GridPattern(q.Grid),
		Hours:          q.Hours,
		Days:           q.Days,
	}
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	City cityQuery
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.City = cityQuery{City: c.Query("city")}

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
