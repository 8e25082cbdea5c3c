package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/atgilet/ffcv-ingest/internal/domain/ingestrun"
)

type RunRepository struct {
	mu     sync.RWMutex
	nextID int64
	runs   map[int64]ingestrun.Run
}

var _ ingestrun.Repository = (*RunRepository)(nil)

func NewRunRepository() *RunRepository {
	return &RunRepository{runs: make(map[int64]ingestrun.Run)}
}

func (r *RunRepository) Create(_ context.Context, run ingestrun.Run) (ingestrun.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	run.ID = r.nextID
	r.runs[run.ID] = run
	return run, nil
}

func (r *RunRepository) Finalize(_ context.Context, run ingestrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[run.ID]; !ok {
		return fmt.Errorf("ingestion run %d not found", run.ID)
	}
	r.runs[run.ID] = run
	return nil
}

func (r *RunRepository) ListRecent(_ context.Context, limit int) ([]ingestrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ingestrun.Run, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
