// Package scheduler wires up the cron jobs that keep the engine tidy:
// periodic cache sweeps and persisted-queue pruning.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Task func(ctx context.Context) error

// Scheduler wraps robfig/cron with the engine's logger.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// Add registers a task under a cron spec such as "@every 10m".
func (s *Scheduler) Add(ctx context.Context, spec, name string, task Task) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := task(ctx); err != nil {
			s.logger.Warn("scheduled task failed", zap.String("task", name), zap.Error(err))
			return
		}
		s.logger.Debug("scheduled task done", zap.String("task", name))
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc(%s): %w", name, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}
