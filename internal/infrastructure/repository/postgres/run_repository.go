package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/atgilet/ffcv-ingest/internal/domain/ingestrun"
	qb "github.com/atgilet/ffcv-ingest/internal/platform/querybuilder"
)

type RunRepository struct {
	db *sqlx.DB
}

var _ ingestrun.Repository = (*RunRepository)(nil)

func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) Create(ctx context.Context, run ingestrun.Run) (ingestrun.Run, error) {
	query, args, err := qb.InsertModel("ingestion_runs", ingestionRunInsertModel{
		StartedAt: run.StartedAt,
		Status:    run.Status,
		Errors:    run.Errors,
	}, "RETURNING id")
	if err != nil {
		return ingestrun.Run{}, fmt.Errorf("build insert ingestion run query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return ingestrun.Run{}, fmt.Errorf("insert ingestion run: %w", err)
	}
	run.ID = id
	return run, nil
}

func (r *RunRepository) Finalize(ctx context.Context, run ingestrun.Run) error {
	query, args, err := qb.Update("ingestion_runs").
		Set("finished_at", run.FinishedAt).
		Set("status", run.Status).
		Set("parsed_matches", run.ParsedMatches).
		Set("updated_matches", run.UpdatedMatches).
		Set("errors", run.Errors).
		Where(qb.Eq("id", run.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build finalize ingestion run query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("finalize ingestion run id=%d: %w", run.ID, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("ingestion run id=%d not found", run.ID)
	}
	return nil
}

func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]ingestrun.Run, error) {
	query, args, err := qb.Select("*").From("ingestion_runs").
		OrderBy("started_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select ingestion runs query: %w", err)
	}

	var rows []ingestionRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select ingestion runs: %w", err)
	}

	out := make([]ingestrun.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, ingestrun.Run{
			ID:             row.ID,
			StartedAt:      row.StartedAt,
			FinishedAt:     row.FinishedAt,
			Status:         row.Status,
			ParsedMatches:  row.ParsedMatches,
			UpdatedMatches: row.UpdatedMatches,
			Errors:         row.Errors,
		})
	}
	return out, nil
}
