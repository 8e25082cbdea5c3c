package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/atgilet/ffcv-ingest/internal/domain/targetconfig"
	qb "github.com/atgilet/ffcv-ingest/internal/platform/querybuilder"
)

// TargetConfigRepository reads and writes the single configuration row. The
// at-most-one invariant lives in the schema: a constant singleton_key column
// with a unique constraint, so a racing second insert fails at the database.
type TargetConfigRepository struct {
	db *sqlx.DB
}

var _ targetconfig.Repository = (*TargetConfigRepository)(nil)

func NewTargetConfigRepository(db *sqlx.DB) *TargetConfigRepository {
	return &TargetConfigRepository{db: db}
}

func (r *TargetConfigRepository) Get(ctx context.Context) (targetconfig.Config, bool, error) {
	query, args, err := qb.Select(
		"id",
		"target_team_name",
		"target_team_external_id",
		"base_url",
		"team_matches_url_template",
		"calendar_url_template",
		"standings_url_template",
		"poll_interval_minutes",
		"is_active",
	).From("target_config").
		Limit(1).
		ToSQL()
	if err != nil {
		return targetconfig.Config{}, false, fmt.Errorf("build select target config query: %w", err)
	}

	var row targetConfigTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return targetconfig.Config{}, false, nil
		}
		return targetconfig.Config{}, false, fmt.Errorf("select target config: %w", err)
	}

	return targetconfig.Config{
		ID:                  row.ID,
		TargetTeamName:      row.TargetTeamName,
		TargetTeamSiteID:    row.TargetTeamSiteID,
		BaseURL:             row.BaseURL,
		TeamMatchesTemplate: row.TeamMatchesTemplate,
		CalendarTemplate:    row.CalendarTemplate,
		StandingsTemplate:   row.StandingsTemplate,
		PollIntervalMinutes: row.PollIntervalMinutes,
		Active:              row.IsActive,
	}, true, nil
}

func (r *TargetConfigRepository) Create(ctx context.Context, cfg targetconfig.Config) (targetconfig.Config, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return targetconfig.Config{}, fmt.Errorf("validate target config: %w", err)
	}

	query, args, err := qb.InsertModel("target_config", targetConfigInsertModel{
		TargetTeamName:      cfg.TargetTeamName,
		TargetTeamSiteID:    cfg.TargetTeamSiteID,
		BaseURL:             cfg.BaseURL,
		TeamMatchesTemplate: cfg.TeamMatchesTemplate,
		CalendarTemplate:    cfg.CalendarTemplate,
		StandingsTemplate:   cfg.StandingsTemplate,
		PollIntervalMinutes: cfg.PollIntervalMinutes,
		IsActive:            cfg.Active,
	}, "RETURNING id")
	if err != nil {
		return targetconfig.Config{}, fmt.Errorf("build insert target config query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return targetconfig.Config{}, fmt.Errorf("insert target config: %w", err)
	}
	cfg.ID = id
	return cfg, nil
}
