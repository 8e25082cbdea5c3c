package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/atgilet/ffcv-ingest/internal/domain/targetconfig"
)

// TargetConfigRepository enforces the same at-most-one-row invariant the
// schema does with its constant-key unique column.
type TargetConfigRepository struct {
	mu     sync.RWMutex
	config targetconfig.Config
	exists bool
}

var _ targetconfig.Repository = (*TargetConfigRepository)(nil)

func NewTargetConfigRepository() *TargetConfigRepository {
	return &TargetConfigRepository{}
}

func (r *TargetConfigRepository) Get(_ context.Context) (targetconfig.Config, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.exists {
		return targetconfig.Config{}, false, nil
	}
	return r.config, true, nil
}

func (r *TargetConfigRepository) Create(_ context.Context, cfg targetconfig.Config) (targetconfig.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.exists {
		return targetconfig.Config{}, fmt.Errorf("target config already exists")
	}
	cfg.ID = 1
	r.config = cfg
	r.exists = true
	return cfg, nil
}
