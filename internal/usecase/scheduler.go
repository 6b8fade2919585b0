package usecase

import (
	"context"
	"log/slog"
	"time"

	"TubeDigest/internal/config"
	"TubeDigest/internal/ports"
)

// Scheduler wires the interval driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	channels []config.ChannelConfig
	digest   bool
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs over channels.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, channels []config.ChannelConfig, digest bool, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		driver:   driver,
		pipeline: pipeline,
		channels: channels,
		digest:   digest,
		logger:   logger.With("component", "scheduler"),
	}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		s.logger.Info("scheduled run", "trigger", trigger.Format(time.RFC3339), "channels", len(s.channels))
		reports := s.pipeline.RunAll(ctx, s.channels)
		if s.digest {
			s.pipeline.Digest(ctx, reports)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
