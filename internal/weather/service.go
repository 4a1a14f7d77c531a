package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/i474232898/rhythm-forecast/internal/observability"
)

// Service is the forecast pipeline: it fans out grid-point fetches to the
// sample source, fuses, smooths, scores and classifies, and keeps refreshed
// reports in the store.
type Service struct {
	source    SampleSource
	store     Store
	publisher ReportPublisher
	defaults  Options
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock overrides the clock used for report timestamps and as the
// fallback "now" when a source does not report local time.
func WithClock(c clockwork.Clock) ServiceOption {
	return func(s *Service) { s.clock = c }
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

func WithMetrics(m *observability.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithPublisher sends every refreshed report to p.
func WithPublisher(p ReportPublisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

// NewService creates a new Service. Zero fields of defaults take DefaultOptions.
func NewService(source SampleSource, store Store, defaults Options, opts ...ServiceOption) *Service {
	s := &Service{
		source:   source,
		store:    store,
		defaults: defaults.merge(DefaultOptions()),
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Defaults returns the options applied to fields a caller leaves zero.
func (s *Service) Defaults() Options {
	return s.defaults
}

// Forecast builds a RhythmReport for city. Any failed grid-point fetch fails
// the whole request with ErrInsufficientData; fewer than the full grid is never fused.
func (s *Service) Forecast(ctx context.Context, city City, opts Options) (RhythmReport, error) {
	start := s.clock.Now()
	opts = opts.merge(s.defaults)

	report, err := s.forecast(ctx, city, opts)
	outcome := "success"
	var shapeErr *InputShapeError
	switch {
	case errors.As(err, &shapeErr):
		outcome = "shape_error"
	case err != nil:
		outcome = "fetch_error"
	}
	if s.metrics != nil {
		s.metrics.ForecastsTotal.WithLabelValues(outcome).Inc()
		s.metrics.ForecastDuration.Observe(s.clock.Since(start).Seconds())
	}
	if err != nil {
		s.logger.Warn("forecast failed", "city", city.Name, "outcome", outcome, "error", err)
		return RhythmReport{}, err
	}

	s.logger.Debug("forecast built",
		"city", city.Name,
		"points", report.Points,
		"hours", len(report.Hourly),
		"days", len(report.Daily),
		"mean_s", report.MeanS,
	)
	return report, nil
}

func (s *Service) forecast(ctx context.Context, city City, opts Options) (RhythmReport, error) {
	if s.source == nil {
		return RhythmReport{}, fmt.Errorf("%w: no sample source configured", ErrInsufficientData)
	}

	points := GridPoints(city.Center, opts.Grid, opts.GridOffset)
	forecasts, err := s.fetchAll(ctx, points, fetchDays(opts))
	if err != nil {
		return RhythmReport{}, err
	}

	now := forecasts[0].LocalNow
	if now.IsZero() {
		now = s.clock.Now()
	}

	windows := make([][]SampleSlice, len(forecasts))
	dailies := make([][]DailySample, len(forecasts))
	for i, pf := range forecasts {
		windows[i] = upcoming(pf.Hourly, now, opts.Hours)
		dailies[i] = pf.Daily
	}

	hourly, err := s.scoreHourly(windows, city.Center, opts)
	if err != nil {
		return RhythmReport{}, err
	}
	daily, days, err := s.scoreDaily(dailies, city.Center, opts)
	if err != nil {
		return RhythmReport{}, err
	}

	narrative, meanS := Summarize(days, city.Center, opts.scorer())

	return RhythmReport{
		ID:          uuid.NewString(),
		City:        city.Name,
		Center:      city.Center,
		Points:      len(points),
		Source:      s.source.Name(),
		GeneratedAt: s.clock.Now().UTC(),
		Options:     opts,
		Hourly:      hourly,
		Daily:       daily,
		MeanS:       meanS,
		Narrative:   narrative,
	}, nil
}

// fetchAll issues all point fetches concurrently and waits for every one.
// The first failure cancels the remaining fetches.
func (s *Service) fetchAll(ctx context.Context, points []GeoPoint, days int) ([]PointForecast, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		once      sync.Once
		firstErr  error
		forecasts = make([]PointForecast, len(points))
		name      = s.source.Name()
	)

	for i, p := range points {
		i, p := i, p
		wg.Add(1)
		go func() {
			defer wg.Done()

			began := s.clock.Now()
			pf, err := s.source.FetchPoint(ctx, p, days)
			if s.metrics != nil {
				s.metrics.PointFetchTime.WithLabelValues(name).Observe(s.clock.Since(began).Seconds())
			}
			if err != nil {
				if s.metrics != nil {
					s.metrics.PointFetches.WithLabelValues(name, "error").Inc()
				}
				once.Do(func() {
					firstErr = &UpstreamFetchError{Source: name, Point: p, Err: err}
					cancel()
				})
				return
			}
			if s.metrics != nil {
				s.metrics.PointFetches.WithLabelValues(name, "success").Inc()
			}
			forecasts[i] = pf
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInsufficientData, firstErr)
	}
	return forecasts, nil
}

// fetchDays is the number of forecast days to request: enough for the daily
// summaries, and enough that an hourly window starting late in the local day
// still holds opts.Hours slices.
func fetchDays(opts Options) int {
	window := 1 + (opts.Hours+23)/24
	return max(opts.Days, window)
}

// upcoming returns at most limit slices at or after now.
func upcoming(hourly []SampleSlice, now time.Time, limit int) []SampleSlice {
	out := make([]SampleSlice, 0, limit)
	for _, h := range hourly {
		if h.Time.Before(now) {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, h)
	}
	return out
}

func (s *Service) scoreHourly(windows [][]SampleSlice, center GeoPoint, opts Options) ([]HourlySlice, error) {
	fused, err := FuseSeries(windows, opts.Reducer)
	if err != nil {
		return nil, fmt.Errorf("fuse hourly: %w", err)
	}
	smoothed := SmoothFields(fused, opts.smoother())

	scorer := opts.scorer()
	scores := make([]float64, len(smoothed))
	for i, f := range smoothed {
		scores[i] = scorer.Score(ScoreInput{
			TemperatureC: f.TemperatureC,
			HumidityPct:  f.HumidityPct,
			WindKph:      f.WindKph,
			CloudPct:     f.CloudPct,
			DewPointC:    f.DewPointC,
			PressureHpa:  f.PressureHpa,
			Latitude:     center.Latitude,
			Altitude:     center.Altitude,
			Time:         f.Time,
		})
	}
	if opts.SmoothScores {
		scores = Smoother{Mode: SmoothingEMA, Alpha: opts.Alpha}.Smooth(scores)
	}

	out := make([]HourlySlice, len(fused))
	for i, f := range fused {
		out[i] = HourlySlice{
			Time:         f.Time,
			TemperatureC: f.TemperatureC,
			HumidityPct:  f.HumidityPct,
			WindKph:      f.WindKph,
			CloudPct:     f.CloudPct,
			PrecipMM:     f.PrecipMM,
			ChanceOfRain: f.ChanceOfRain,
			Condition:    Classify(scores[i], f.PrecipMM, f.ChanceOfRain, opts.HourlyTier),
			Sky:          DescribeSky(f.ConditionText),
			S:            scores[i],
		}
	}
	return out, nil
}

func (s *Service) scoreDaily(dailies [][]DailySample, center GeoPoint, opts Options) ([]DailySummary, []DailySample, error) {
	days, err := FuseDaily(dailies, opts.Reducer)
	if err != nil {
		return nil, nil, fmt.Errorf("fuse daily: %w", err)
	}
	if len(days) > opts.Days {
		days = days[:opts.Days]
	}

	scorer := opts.scorer()
	out := make([]DailySummary, len(days))
	for i, d := range days {
		score := DailyScore(d, center, scorer)
		out[i] = DailySummary{
			Date:          d.Date,
			MinTempC:      d.MinTempC,
			MaxTempC:      d.MaxTempC,
			AvgTempC:      d.AvgTempC,
			AvgHumidity:   d.AvgHumidity,
			TotalPrecipMM: d.TotalPrecipMM,
			ChanceOfRain:  d.ChanceOfRain,
			Condition:     Classify(score, d.TotalPrecipMM, d.ChanceOfRain, TierDaily),
			Sky:           DescribeSky(d.ConditionText),
			S:             score,
			Narrative:     Narrative(score),
		}
	}
	return out, days, nil
}

// Refresh builds a report with the service defaults, stores it and publishes
// it when a publisher is configured. Publish failures are logged, not returned.
func (s *Service) Refresh(ctx context.Context, city City) error {
	report, err := s.Forecast(ctx, city, Options{})
	if err != nil {
		return err
	}
	s.store.SaveReport(report)
	if s.metrics != nil {
		s.metrics.LastMeanS.WithLabelValues(report.City).Set(report.MeanS)
	}

	if s.publisher == nil {
		return nil
	}
	outcome := "success"
	if err := s.publisher.Publish(ctx, report); err != nil {
		outcome = "error"
		s.logger.Error("publish report failed", "city", report.City, "report_id", report.ID, "error", err)
	}
	if s.metrics != nil {
		s.metrics.ReportsPublished.WithLabelValues(outcome).Inc()
	}
	return nil
}

// Latest delegates to the underlying store.
func (s *Service) Latest(city string) (RhythmReport, error) {
	return s.store.GetLatest(city)
}

// History delegates to the underlying store.
func (s *Service) History(city string, from, to time.Time) ([]RhythmReport, error) {
	return s.store.GetRange(city, from, to)
}
