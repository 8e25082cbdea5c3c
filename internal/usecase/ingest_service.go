package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atgilet/ffcv-ingest/internal/domain/ingestrun"
	"github.com/atgilet/ffcv-ingest/internal/domain/targetconfig"
	"github.com/atgilet/ffcv-ingest/internal/platform/logging"
)

// SourceFactory builds a results source for the active configuration. The
// indirection keeps site-shape knowledge out of the coordinator.
type SourceFactory func(cfg targetconfig.Config) ResultsSource

type IngestService struct {
	configs targetconfig.Repository
	runs    ingestrun.Repository
	store   MatchStore
	source  SourceFactory
	logger  *logging.Logger
	now     func() time.Time
}

func NewIngestService(
	configs targetconfig.Repository,
	runs ingestrun.Repository,
	store MatchStore,
	source SourceFactory,
	logger *logging.Logger,
) *IngestService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestService{
		configs: configs,
		runs:    runs,
		store:   store,
		source:  source,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes one ingestion attempt end to end. A run row is created before
// any work starts and finalized on every exit path. Missing or inactive
// configuration skips the run; a missing target team identifier records an
// ERROR run but does not return an error, since there is nothing transient to
// retry. Fetch, parse and persistence failures record an ERROR run and are
// returned to the caller after the run row is finalized.
func (s *IngestService) Run(ctx context.Context) (ingestrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestService.Run")
	defer span.End()

	run, err := s.runs.Create(ctx, ingestrun.Run{
		StartedAt: s.now().UTC(),
		Status:    ingestrun.StatusSkipped,
	})
	if err != nil {
		return ingestrun.Run{}, fmt.Errorf("create ingestion run: %w", err)
	}

	defer func() {
		finished := s.now().UTC()
		run.FinishedAt = &finished
		// The run row must be finalized even when the run context was
		// cancelled mid-flight, so the audit trail never shows an open run.
		finalizeCtx := context.WithoutCancel(ctx)
		if finalizeErr := s.runs.Finalize(finalizeCtx, run); finalizeErr != nil {
			s.logger.ErrorContext(finalizeCtx, "finalize ingestion run failed",
				"run_id", run.ID,
				"error", finalizeErr,
			)
		}
	}()

	cfg, found, err := s.configs.Get(ctx)
	if err != nil {
		run.Status = ingestrun.StatusError
		run.Errors = errorText(err)
		return run, fmt.Errorf("load target config: %w", err)
	}
	if !found || !cfg.Active {
		run.Status = ingestrun.StatusSkipped
		run.Errors = "target config missing or inactive"
		s.logger.InfoContext(ctx, "ingestion skipped", "reason", run.Errors)
		return run, nil
	}

	cfg = cfg.WithDefaults()
	if strings.TrimSpace(cfg.TargetTeamSiteID) == "" {
		run.Status = ingestrun.StatusError
		run.Errors = "target team external id is not configured"
		s.logger.WarnContext(ctx, "ingestion aborted", "reason", run.Errors)
		return run, nil
	}

	source := s.source(cfg)
	parsed, err := source.FetchMatches(ctx, cfg.TargetTeamSiteID, cfg.TargetTeamName)
	if err != nil {
		run.Status = ingestrun.StatusError
		run.Errors = errorText(err)
		return run, fmt.Errorf("fetch target matches: %w", err)
	}
	run.ParsedMatches = len(parsed)

	plan := BuildReconciliationPlan(cfg, parsed)
	result, err := s.store.ApplyPlan(ctx, plan)
	if err != nil {
		run.Status = ingestrun.StatusError
		run.Errors = errorText(err)
		return run, fmt.Errorf("apply ingestion plan: %w", err)
	}

	run.UpdatedMatches = result.Updated
	run.Status = ingestrun.StatusSuccess
	s.logger.InfoContext(ctx, "ingestion finished",
		"run_id", run.ID,
		"parsed_matches", run.ParsedMatches,
		"created_matches", result.Created,
		"updated_matches", result.Updated,
	)
	return run, nil
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%T: %v", err, err)
}
