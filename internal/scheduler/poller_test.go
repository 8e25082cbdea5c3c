package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/atgilet/ffcv-ingest/internal/domain/ingestrun"
	"github.com/atgilet/ffcv-ingest/internal/domain/targetconfig"
	"github.com/atgilet/ffcv-ingest/internal/platform/logging"
)

type countingRunner struct {
	calls chan struct{}
}

func (r *countingRunner) Run(ctx context.Context) (ingestrun.Run, error) {
	r.calls <- struct{}{}
	return ingestrun.Run{ID: 1, Status: ingestrun.StatusSuccess}, nil
}

type staticConfigRepo struct {
	cfg   targetconfig.Config
	found bool
}

func (r *staticConfigRepo) Get(_ context.Context) (targetconfig.Config, bool, error) {
	return r.cfg, r.found, nil
}

func (r *staticConfigRepo) Create(_ context.Context, cfg targetconfig.Config) (targetconfig.Config, error) {
	return cfg, nil
}

func TestPollerRunsImmediately(t *testing.T) {
	runner := &countingRunner{calls: make(chan struct{}, 1)}
	poller := NewPoller(runner, &staticConfigRepo{}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	select {
	case <-runner.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not run an initial cycle")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop on context cancellation")
	}
}

func TestIntervalFromConfig(t *testing.T) {
	poller := NewPoller(nil, &staticConfigRepo{
		cfg:   targetconfig.Config{PollIntervalMinutes: 5},
		found: true,
	}, logging.NewNop())

	if got := poller.interval(context.Background()); got != 5*time.Minute {
		t.Fatalf("interval = %s, want 5m", got)
	}
}

func TestIntervalFallsBackWhenUnconfigured(t *testing.T) {
	poller := NewPoller(nil, &staticConfigRepo{}, logging.NewNop())

	want := time.Duration(targetconfig.DefaultPollIntervalMinutes) * time.Minute
	if got := poller.interval(context.Background()); got != want {
		t.Fatalf("interval = %s, want %s", got, want)
	}
}

func TestIntervalClampsToMinimum(t *testing.T) {
	poller := NewPoller(nil, &staticConfigRepo{
		cfg:   targetconfig.Config{PollIntervalMinutes: 0},
		found: true,
	}, logging.NewNop())

	if got := poller.interval(context.Background()); got != minPollInterval {
		t.Fatalf("interval = %s, want %s", got, minPollInterval)
	}
}
