package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/rhythm-forecast/internal/weather"
)

const (
	defaultInterval = 30 * time.Minute
	refreshTimeout  = 30 * time.Second
)

// Refresher rebuilds and stores the report for one city.
type Refresher interface {
	Refresh(ctx context.Context, city weather.City) error
}

// Scheduler periodically refreshes rhythm reports for tracked cities.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	cities    []weather.City
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler. A non-positive interval falls back to 30 minutes.
func New(cities []weather.City, interval time.Duration, refresher Refresher, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		cities:    cities,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		s.logger.Info("scheduler: no cities configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every tracked city concurrently and returns the number
// of failed refreshes. Failures are logged and do not stop the other cities.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	s.logger.Debug("scheduler: running refresh job", "cities", len(s.cities))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, city := range s.cities {
		city := city
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
			defer cancel()

			if err := s.refresher.Refresh(ctx, city); err != nil {
				s.logger.Warn("scheduler: refresh failed", "city", city.Name, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.logger.Debug("scheduler: completed refresh job", "failed", failed)
	return failed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
