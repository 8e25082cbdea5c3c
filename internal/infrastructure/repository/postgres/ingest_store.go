// Package postgres implements the repositories on sqlx over lib/pq.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	qb "github.com/atgilet/ffcv-ingest/internal/platform/querybuilder"
	"github.com/atgilet/ffcv-ingest/internal/usecase"
)

// IngestStore applies a reconciliation plan in one transaction. Every entity
// upsert is insert-on-conflict with RETURNING so the id maps are built in the
// same round trip, and match rows use (xmax = 0) to distinguish creates from
// updates.
type IngestStore struct {
	db *sqlx.DB
}

var _ usecase.MatchStore = (*IngestStore)(nil)

func NewIngestStore(db *sqlx.DB) *IngestStore {
	return &IngestStore{db: db}
}

func (s *IngestStore) ApplyPlan(ctx context.Context, plan usecase.ReconciliationPlan) (usecase.ApplyResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return usecase.ApplyResult{}, fmt.Errorf("begin tx apply plan: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	teamIDs, err := upsertTeams(ctx, tx, plan.Teams)
	if err != nil {
		return usecase.ApplyResult{}, err
	}
	competitionIDs, err := upsertCompetitions(ctx, tx, plan.Competitions)
	if err != nil {
		return usecase.ApplyResult{}, err
	}
	roundIDs, err := upsertRounds(ctx, tx, plan.Rounds, competitionIDs)
	if err != nil {
		return usecase.ApplyResult{}, err
	}
	venueIDs, err := upsertVenues(ctx, tx, plan.Venues)
	if err != nil {
		return usecase.ApplyResult{}, err
	}

	result, err := upsertMatches(ctx, tx, plan.Matches, teamIDs, competitionIDs, roundIDs, venueIDs)
	if err != nil {
		return usecase.ApplyResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return usecase.ApplyResult{}, fmt.Errorf("commit apply plan tx: %w", err)
	}
	return result, nil
}

func upsertTeams(ctx context.Context, tx *sqlx.Tx, teams []usecase.TeamUpsert) (map[string]int64, error) {
	ids := make(map[string]int64, len(teams))
	for _, t := range teams {
		query, args, err := qb.InsertModel("teams", teamInsertModel{
			ExternalID: t.ExternalID,
			Name:       t.Name,
			ShieldURL:  t.ShieldURL,
			IsTarget:   t.IsTarget,
		}, `ON CONFLICT (external_id)
DO UPDATE SET
    name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE teams.name END,
    shield_url = CASE WHEN EXCLUDED.shield_url <> '' THEN EXCLUDED.shield_url ELSE teams.shield_url END,
    is_target = teams.is_target OR EXCLUDED.is_target,
    updated_at = NOW()
RETURNING id`)
		if err != nil {
			return nil, fmt.Errorf("build upsert team query: %w", err)
		}

		var id int64
		if err := tx.GetContext(ctx, &id, query, args...); err != nil {
			return nil, fmt.Errorf("upsert team external_id=%s: %w", t.ExternalID, err)
		}
		ids[t.ExternalID] = id
	}
	return ids, nil
}

func upsertCompetitions(ctx context.Context, tx *sqlx.Tx, competitions []usecase.CompetitionUpsert) (map[string]int64, error) {
	ids := make(map[string]int64, len(competitions))
	for _, c := range competitions {
		query, args, err := qb.InsertModel("competition_contexts", competitionInsertModel{
			Name:       c.Name,
			SeasonName: c.SeasonName,
			SourceURL:  c.SourceURL,
			IsActive:   true,
		}, `ON CONFLICT (name, season_name)
DO UPDATE SET
    source_url = EXCLUDED.source_url,
    updated_at = NOW()
RETURNING id`)
		if err != nil {
			return nil, fmt.Errorf("build upsert competition query: %w", err)
		}

		var id int64
		if err := tx.GetContext(ctx, &id, query, args...); err != nil {
			return nil, fmt.Errorf("upsert competition name=%s: %w", c.Name, err)
		}
		ids[competitionKey(c.Name, c.SeasonName)] = id
	}
	return ids, nil
}

func upsertRounds(ctx context.Context, tx *sqlx.Tx, rounds []usecase.RoundUpsert, competitionIDs map[string]int64) (map[string]int64, error) {
	ids := make(map[string]int64, len(rounds))
	for _, r := range rounds {
		competitionID, ok := competitionIDs[competitionKey(r.CompetitionName, r.SeasonName)]
		if !ok {
			return nil, fmt.Errorf("round %d references unknown competition %q", r.RoundNumber, r.CompetitionName)
		}

		// round_date is written only when the row is first created; the
		// no-op update exists so RETURNING yields the id either way.
		query, args, err := qb.InsertModel("rounds", roundInsertModel{
			CompetitionID: competitionID,
			RoundNumber:   r.RoundNumber,
			RoundDate:     r.RoundDate,
		}, `ON CONFLICT (competition_id, round_number)
DO UPDATE SET round_number = EXCLUDED.round_number
RETURNING id`)
		if err != nil {
			return nil, fmt.Errorf("build upsert round query: %w", err)
		}

		var id int64
		if err := tx.GetContext(ctx, &id, query, args...); err != nil {
			return nil, fmt.Errorf("upsert round %d: %w", r.RoundNumber, err)
		}
		ids[roundKey(r.CompetitionName, r.SeasonName, r.RoundNumber)] = id
	}
	return ids, nil
}

func upsertVenues(ctx context.Context, tx *sqlx.Tx, venues []usecase.VenueUpsert) (map[string]int64, error) {
	ids := make(map[string]int64, len(venues))
	for _, v := range venues {
		query, args, err := qb.InsertModel("venues", venueInsertModel{Name: v.Name},
			`ON CONFLICT (name)
DO UPDATE SET name = EXCLUDED.name
RETURNING id`)
		if err != nil {
			return nil, fmt.Errorf("build upsert venue query: %w", err)
		}

		var id int64
		if err := tx.GetContext(ctx, &id, query, args...); err != nil {
			return nil, fmt.Errorf("upsert venue name=%s: %w", v.Name, err)
		}
		ids[v.Name] = id
	}
	return ids, nil
}

func upsertMatches(
	ctx context.Context,
	tx *sqlx.Tx,
	matches []usecase.MatchUpsert,
	teamIDs map[string]int64,
	competitionIDs map[string]int64,
	roundIDs map[string]int64,
	venueIDs map[string]int64,
) (usecase.ApplyResult, error) {
	var result usecase.ApplyResult
	for _, m := range matches {
		homeID, ok := teamIDs[m.HomeTeamExternalID]
		if !ok {
			return usecase.ApplyResult{}, fmt.Errorf("match %s references unknown home team %q", m.ExternalKey, m.HomeTeamExternalID)
		}
		awayID, ok := teamIDs[m.AwayTeamExternalID]
		if !ok {
			return usecase.ApplyResult{}, fmt.Errorf("match %s references unknown away team %q", m.ExternalKey, m.AwayTeamExternalID)
		}
		competitionID, ok := competitionIDs[competitionKey(m.CompetitionName, m.SeasonName)]
		if !ok {
			return usecase.ApplyResult{}, fmt.Errorf("match %s references unknown competition %q", m.ExternalKey, m.CompetitionName)
		}

		var roundID *int64
		if m.RoundNumber != nil {
			if id, ok := roundIDs[roundKey(m.CompetitionName, m.SeasonName, *m.RoundNumber)]; ok {
				roundID = &id
			}
		}
		var venueID *int64
		if m.VenueName != "" {
			if id, ok := venueIDs[m.VenueName]; ok {
				venueID = &id
			}
		}

		query, args, err := qb.InsertModel("matches", matchInsertModel{
			ExternalKey:   m.ExternalKey,
			CompetitionID: competitionID,
			RoundID:       roundID,
			HomeTeamID:    homeID,
			AwayTeamID:    awayID,
			KickoffAt:     m.KickoffAt,
			HomeScore:     m.HomeScore,
			AwayScore:     m.AwayScore,
			Status:        m.Status,
			ResultNote:    m.ResultNote,
			VenueID:       venueID,
			SourceURL:     m.SourceURL,
			IsTargetMatch: true,
		}, `ON CONFLICT (external_key)
DO UPDATE SET
    competition_id = EXCLUDED.competition_id,
    round_id = EXCLUDED.round_id,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    kickoff_at = EXCLUDED.kickoff_at,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    status = EXCLUDED.status,
    result_note = EXCLUDED.result_note,
    venue_id = EXCLUDED.venue_id,
    source_url = EXCLUDED.source_url,
    is_target_match = EXCLUDED.is_target_match,
    updated_at = NOW()
RETURNING (xmax = 0) AS inserted`)
		if err != nil {
			return usecase.ApplyResult{}, fmt.Errorf("build upsert match query: %w", err)
		}

		var inserted bool
		if err := tx.GetContext(ctx, &inserted, query, args...); err != nil {
			return usecase.ApplyResult{}, fmt.Errorf("upsert match external_key=%s: %w", m.ExternalKey, err)
		}
		if inserted {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

func competitionKey(name, season string) string {
	return name + "\x00" + season
}

func roundKey(name, season string, roundNumber int) string {
	return fmt.Sprintf("%s\x00%s\x00%d", name, season, roundNumber)
}
