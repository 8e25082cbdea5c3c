package usecase

import (
	"context"
	"fmt"

	"github.com/atgilet/ffcv-ingest/internal/domain/ingestrun"
	"github.com/atgilet/ffcv-ingest/internal/domain/match"
	"github.com/atgilet/ffcv-ingest/internal/domain/team"
	"github.com/atgilet/ffcv-ingest/internal/platform/logging"
)

const (
	defaultRunListLimit = 20
	maxRunListLimit     = 100
)

// StatusService serves the read side: recent run history, the target team's
// match list, and the known teams. It never mutates anything.
type StatusService struct {
	runs    ingestrun.Repository
	matches match.Repository
	teams   team.Repository
	logger  *logging.Logger
}

func NewStatusService(runs ingestrun.Repository, matches match.Repository, teams team.Repository, logger *logging.Logger) *StatusService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatusService{runs: runs, matches: matches, teams: teams, logger: logger}
}

func (s *StatusService) RecentRuns(ctx context.Context, limit int) ([]ingestrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "StatusService.RecentRuns")
	defer span.End()

	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}
	if limit == 0 {
		limit = defaultRunListLimit
	}
	if limit > maxRunListLimit {
		limit = maxRunListLimit
	}

	runs, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingestion runs: %w", err)
	}
	return runs, nil
}

func (s *StatusService) TargetMatches(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "StatusService.TargetMatches")
	defer span.End()

	matches, err := s.matches.ListTarget(ctx)
	if err != nil {
		return nil, fmt.Errorf("list target matches: %w", err)
	}
	return matches, nil
}

func (s *StatusService) Teams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "StatusService.Teams")
	defer span.End()

	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}
