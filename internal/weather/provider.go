package weather

import (
	"context"
	"time"
)

// SampleSource abstracts a forecast data source (e.g. WeatherAPI, Open-Meteo, OpenWeatherMap).
// FetchPoint returns the hourly and daily series for a single grid point.
type SampleSource interface {
	Name() string
	FetchPoint(ctx context.Context, point GeoPoint, days int) (PointForecast, error)
}

// Store is the contract the in-memory report store must satisfy.
type Store interface {
	SaveReport(report RhythmReport)
	GetLatest(city string) (RhythmReport, error)
	GetRange(city string, from, to time.Time) ([]RhythmReport, error)
}

// ReportPublisher forwards refreshed reports to downstream consumers.
type ReportPublisher interface {
	Publish(ctx context.Context, report RhythmReport) error
}
