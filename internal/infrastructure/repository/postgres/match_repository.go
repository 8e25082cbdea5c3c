package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/atgilet/ffcv-ingest/internal/domain/match"
	qb "github.com/atgilet/ffcv-ingest/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

var _ match.Repository = (*MatchRepository)(nil)

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListTarget(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(
		"m.id AS id",
		"m.external_key AS external_key",
		"c.name AS competition_name",
		"c.season_name AS season_name",
		"r.round_number AS round_number",
		"m.kickoff_at AS kickoff_at",
		"ht.name AS home_team",
		"aw.name AS away_team",
		"m.home_score AS home_score",
		"m.away_score AS away_score",
		"m.status AS status",
		"m.result_note AS result_note",
		"v.name AS venue_name",
		"m.source_url AS source_url",
		"m.is_target_match AS is_target_match",
	).From(`matches m
    JOIN competition_contexts c ON c.id = m.competition_id
    JOIN teams ht ON ht.id = m.home_team_id
    JOIN teams aw ON aw.id = m.away_team_id
    LEFT JOIN rounds r ON r.id = m.round_id
    LEFT JOIN venues v ON v.id = m.venue_id`).
		Where(qb.Eq("m.is_target_match", true)).
		OrderBy("m.kickoff_at ASC NULLS LAST", "m.id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select target matches query: %w", err)
	}

	var rows []matchListRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select target matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Match{
			ID:              row.ID,
			ExternalKey:     row.ExternalKey,
			CompetitionName: row.CompetitionName,
			SeasonName:      row.SeasonName,
			RoundNumber:     row.RoundNumber,
			KickoffAt:       row.KickoffAt,
			HomeTeam:        row.HomeTeam,
			AwayTeam:        row.AwayTeam,
			HomeScore:       row.HomeScore,
			AwayScore:       row.AwayScore,
			Status:          row.Status,
			ResultNote:      row.ResultNote,
			VenueName:       stringOrEmpty(row.VenueName),
			SourceURL:       row.SourceURL,
			IsTargetMatch:   row.IsTargetMatch,
		})
	}
	return out, nil
}
