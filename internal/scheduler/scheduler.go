// Package scheduler repeats digest runs on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"github.com/elonfeng/aidigest/internal/pipeline"
	"go.uber.org/zap"
)

// Runner performs one digest run.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Report, error)
}

// Scheduler runs the digest pipeline periodically.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *zap.Logger
}

// New creates a new scheduler.
func New(runner Runner, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the scheduler loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start.
	s.logger.Info("scheduler: initial run")
	s.runOnce(ctx)

	s.logger.Info("scheduler: running", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler: stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	report, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.Error("digest run failed", zap.Error(err))
		return
	}
	s.logger.Info("digest run finished",
		zap.Int("new", report.Counts.New),
		zap.Bool("sent", report.Sent),
		zap.Duration("took", report.Duration))
}
