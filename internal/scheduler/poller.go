// Package scheduler drives periodic ingestion runs inside the API process.
package scheduler

import (
	"context"
	"time"

	"github.com/atgilet/ffcv-ingest/internal/domain/ingestrun"
	"github.com/atgilet/ffcv-ingest/internal/domain/targetconfig"
	"github.com/atgilet/ffcv-ingest/internal/platform/logging"
)

const minPollInterval = time.Minute

// Runner executes one ingestion attempt.
type Runner interface {
	Run(ctx context.Context) (ingestrun.Run, error)
}

type Poller struct {
	runner  Runner
	configs targetconfig.Repository
	logger  *logging.Logger

	// fallbackInterval is used when no configuration row exists yet, so the
	// poller keeps probing until one appears.
	fallbackInterval time.Duration
}

func NewPoller(runner Runner, configs targetconfig.Repository, logger *logging.Logger) *Poller {
	if logger == nil {
		logger = logging.Default()
	}
	return &Poller{
		runner:           runner,
		configs:          configs,
		logger:           logger,
		fallbackInterval: time.Duration(targetconfig.DefaultPollIntervalMinutes) * time.Minute,
	}
}

// Run blocks until ctx is cancelled. One cycle executes immediately, then the
// poller sleeps for the configured interval, re-reading it each cycle so
// configuration changes take effect without a restart.
func (p *Poller) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "poller stopping")
			return
		case <-timer.C:
		}

		p.cycle(ctx)
		timer.Reset(p.interval(ctx))
	}
}

func (p *Poller) cycle(ctx context.Context) {
	run, err := p.runner.Run(ctx)
	if err != nil {
		p.logger.ErrorContext(ctx, "scheduled ingestion run failed",
			"run_id", run.ID,
			"status", run.Status,
			"error", err,
		)
		return
	}
	p.logger.InfoContext(ctx, "scheduled ingestion run finished",
		"run_id", run.ID,
		"status", run.Status,
		"parsed_matches", run.ParsedMatches,
		"updated_matches", run.UpdatedMatches,
	)
}

func (p *Poller) interval(ctx context.Context) time.Duration {
	cfg, found, err := p.configs.Get(ctx)
	if err != nil {
		p.logger.WarnContext(ctx, "read poll interval failed", "error", err)
		return p.fallbackInterval
	}
	if !found {
		return p.fallbackInterval
	}

	interval := time.Duration(cfg.PollIntervalMinutes) * time.Minute
	if interval < minPollInterval {
		interval = minPollInterval
	}
	return interval
}
