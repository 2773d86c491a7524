package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper обобщает активности, оставшиеся с правилом без вхождений
type Sweeper interface {
	GeneralizeStale(ctx context.Context) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sweeper Sweeper
	spec    string
	cron    *cron.Cron
	logger  *zap.Logger
}

// NewScheduler создаёт планировщик; spec - расписание в формате cron или @every
func NewScheduler(sweeper Sweeper, spec string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		sweeper: sweeper,
		spec:    spec,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start запускает фоновые задачи. Первый проход выполняется сразу.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Starting background scheduler", zap.String("spec", s.spec))

	if _, err := s.cron.AddFunc(s.spec, func() { s.sweep(ctx) }); err != nil {
		return fmt.Errorf("schedule generalization sweep: %w", err)
	}

	s.sweep(ctx)
	s.cron.Start()
	return nil
}

// Stop останавливает планировщик и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	n, err := s.sweeper.GeneralizeStale(ctx)
	if err != nil {
		s.logger.Error("Failed to generalize stale activities", zap.Error(err))
		return
	}

	s.logger.Debug("Generalization sweep completed", zap.Int("generalized", n))
}
