// Package scheduler runs periodic background jobs, currently the outline
// refresh of the vocabulary service.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

type refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler periodically refreshes cached outlines.
type Scheduler struct {
	cron     *gocron.Scheduler
	target   refresher
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger
}

// New creates a scheduler that calls target.Refresh every interval. Each
// run is bounded by timeout (interval when zero).
func New(logger *slog.Logger, target refresher, interval, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = interval
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		cron:     s,
		target:   target,
		interval: interval,
		timeout:  timeout,
		log:      logger.With("service", "scheduler"),
	}
}

// Start schedules the refresh job and returns immediately. The first run
// happens one interval after Start since outlines are loaded lazily.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler: interval must be positive, got %s", s.interval)
	}
	if _, err := s.cron.Every(s.interval).WaitForSchedule().Do(s.refresh); err != nil {
		return fmt.Errorf("scheduler: schedule refresh: %w", err)
	}
	s.cron.StartAsync()
	s.log.Info("outline refresh scheduled", slog.Duration("interval", s.interval))
	return nil
}

// Stop terminates the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.target.Refresh(ctx); err != nil {
		s.log.Warn("outline refresh failed", slog.Any("error", err), slog.Duration("duration", time.Since(start)))
		return
	}
	s.log.Debug("outlines refreshed", slog.Duration("duration", time.Since(start)))
}
