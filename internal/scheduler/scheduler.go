package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Reloader is implemented by weather.Service.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Scheduler periodically reloads the weather dataset.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reloader  Reloader
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler. A non-positive interval disables it.
func New(interval time.Duration, reloader Reloader, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		reloader:  reloader,
		interval:  interval,
		timeout:   30 * time.Second,
		logger:    logger,
	}
}

// Start schedules the reload job and starts the underlying scheduler. The
// first run happens one interval from now since the dataset is loaded at
// startup.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("scheduler: reload interval not set; periodic reload disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).
		WaitForSchedule().
		SingletonMode().
		Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler: periodic reload started", "interval", s.interval.String())
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.logger.Debug("scheduler: running dataset reload job")
	if err := s.reloader.Reload(ctx); err != nil {
		s.logger.Error("scheduler: dataset reload failed", "error", err)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil && s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}
