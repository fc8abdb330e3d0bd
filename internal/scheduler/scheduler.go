package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/meridianlogistics/insight-service/internal/report"
)

// Scheduler runs the recurring jobs the report layer depends on. Today that
// is one job: the weekly KPI snapshot that becomes next week's trend
// baseline.
type Scheduler struct {
	cron    *cron.Cron
	reports *report.Service
	logger  *zap.Logger
}

// New creates a scheduler around the report service
func New(reports *report.Service, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		reports: reports,
		logger:  logger,
	}
}

// Start registers the snapshot job with the given cron schedule and starts
// the cron loop.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := s.reports.CaptureSnapshot(ctx, time.Now()); err != nil {
			s.logger.Error("Weekly snapshot job failed", zap.Error(err))
			return
		}
		s.logger.Info("Weekly snapshot job completed")
	})
	if err != nil {
		return fmt.Errorf("failed to register snapshot job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", zap.String("snapshot_schedule", schedule))
	return nil
}

// Stop stops the cron loop and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}
