package services

import (
	"context"
	"time"

	"github.com/pratik-mahalle/creditwatch/internal/detector"
	"github.com/pratik-mahalle/creditwatch/internal/domain/alert"
	"github.com/pratik-mahalle/creditwatch/internal/domain/portfolio"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/logger"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/metrics"
)

// ScanService runs one evaluation pass: snapshot the portfolio, run
// the rule engine, ingest the resulting triggers. The scan schedule is
// the host's concern; this service only knows how to run a single
// pass.
type ScanService struct {
	source portfolio.Source
	engine *detector.Engine
	store  alert.Store
	logger *logger.Logger
}

// ScanResult summarizes one evaluation pass.
type ScanResult struct {
	Entities int            `json:"entities"`
	Triggers int            `json:"triggers"`
	Alerts   []*alert.Alert `json:"alerts"`
	Duration time.Duration  `json:"duration"`
}

// NewScanService creates a scan service.
func NewScanService(source portfolio.Source, engine *detector.Engine, store alert.Store, log *logger.Logger) *ScanService {
	return &ScanService{
		source: source,
		engine: engine,
		store:  store,
		logger: log,
	}
}

// Run performs one evaluation pass over the current portfolio
// snapshot.
func (s *ScanService) Run(ctx context.Context) (*ScanResult, error) {
	start := time.Now()

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		metrics.RecordScanPass("error", time.Since(start))
		s.logger.ErrorWithErr(err, "Failed to snapshot portfolio")
		return nil, err
	}

	triggers := s.engine.Evaluate(snap)
	for _, t := range triggers {
		metrics.RecordTrigger(string(t.Type), string(t.Severity))
	}

	created, err := s.store.Ingest(ctx, triggers)
	if err != nil {
		metrics.RecordScanPass("error", time.Since(start))
		s.logger.ErrorWithErr(err, "Failed to ingest triggers")
		return nil, err
	}

	duration := time.Since(start)
	metrics.RecordScanPass("ok", duration)

	s.logger.WithFields(map[string]interface{}{
		"entities":    len(snap.Entities),
		"triggers":    len(triggers),
		"alerts":      len(created),
		"duration_ms": duration.Milliseconds(),
	}).Info("Evaluation pass completed")

	return &ScanResult{
		Entities: len(snap.Entities),
		Triggers: len(triggers),
		Alerts:   created,
		Duration: duration,
	}, nil
}
