package worker

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/pratik-mahalle/creditwatch/internal/pkg/logger"
	"github.com/pratik-mahalle/creditwatch/internal/services"
)

// ScanScheduler runs portfolio scans on a cron schedule.
type ScanScheduler struct {
	scanService *services.ScanService
	schedule    string
	logger      *logger.Logger
}

// NewScanScheduler creates a new scan scheduler worker.
func NewScanScheduler(scanService *services.ScanService, schedule string, log *logger.Logger) *ScanScheduler {
	return &ScanScheduler{
		scanService: scanService,
		schedule:    schedule,
		logger:      log,
	}
}

// Start runs an initial scan and then scans on the configured schedule
// until the context is cancelled.
func (s *ScanScheduler) Start(ctx context.Context) error {
	s.logger.Infof("Starting scan scheduler with schedule %q", s.schedule)

	s.runScan(ctx)

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() { s.runScan(ctx) }); err != nil {
		return err
	}
	c.Start()

	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	s.logger.Info("Scan scheduler stopped")
	return nil
}

func (s *ScanScheduler) runScan(ctx context.Context) {
	result, err := s.scanService.Run(ctx)
	if err != nil {
		s.logger.ErrorWithErr(err, "Portfolio scan failed")
		return
	}
	s.logger.WithFields(map[string]interface{}{
		"entities": result.Entities,
		"triggers": result.Triggers,
		"alerts":   result.Alerts,
		"duration": result.Duration.String(),
	}).Info("Portfolio scan completed")
}
