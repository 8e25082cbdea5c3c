package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/atgilet/ffcv-ingest/internal/domain/ingestrun"
	"github.com/atgilet/ffcv-ingest/internal/domain/targetconfig"
)

type stubConfigRepo struct {
	cfg   targetconfig.Config
	found bool
	err   error
}

func (s *stubConfigRepo) Get(context.Context) (targetconfig.Config, bool, error) {
	return s.cfg, s.found, s.err
}

func (s *stubConfigRepo) Create(_ context.Context, cfg targetconfig.Config) (targetconfig.Config, error) {
	return cfg, nil
}

type stubRunRepo struct {
	created   []ingestrun.Run
	finalized []ingestrun.Run
}

func (s *stubRunRepo) Create(_ context.Context, run ingestrun.Run) (ingestrun.Run, error) {
	run.ID = int64(len(s.created) + 1)
	s.created = append(s.created, run)
	return run, nil
}

func (s *stubRunRepo) Finalize(_ context.Context, run ingestrun.Run) error {
	s.finalized = append(s.finalized, run)
	return nil
}

func (s *stubRunRepo) ListRecent(context.Context, int) ([]ingestrun.Run, error) {
	return append([]ingestrun.Run(nil), s.finalized...), nil
}

type stubStore struct {
	result ApplyResult
	err    error
	plans  []ReconciliationPlan
}

func (s *stubStore) ApplyPlan(_ context.Context, plan ReconciliationPlan) (ApplyResult, error) {
	s.plans = append(s.plans, plan)
	if s.err != nil {
		return ApplyResult{}, s.err
	}
	return s.result, nil
}

type stubSource struct {
	parsed []ParsedMatch
	err    error
}

func (s *stubSource) TeamMatchesURL(string) (string, error) {
	return "https://www.ffcv.es/equipo_p_partidos.php?id_equipo=12345", nil
}

func (s *stubSource) FetchMatches(context.Context, string, string) ([]ParsedMatch, error) {
	return s.parsed, s.err
}

func newTestService(configs *stubConfigRepo, runs *stubRunRepo, store *stubStore, source *stubSource) *IngestService {
	return NewIngestService(configs, runs, store, func(targetconfig.Config) ResultsSource {
		return source
	}, nil)
}

func TestRunSkipsWhenConfigMissing(t *testing.T) {
	t.Parallel()

	runs := &stubRunRepo{}
	svc := newTestService(&stubConfigRepo{found: false}, runs, &stubStore{}, &stubSource{})

	run, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Status != ingestrun.StatusSkipped {
		t.Fatalf("status = %q, want SKIPPED", run.Status)
	}
	if len(runs.finalized) != 1 {
		t.Fatalf("finalized runs = %d, want 1", len(runs.finalized))
	}
	if runs.finalized[0].FinishedAt == nil {
		t.Fatalf("finished_at not set")
	}
}

func TestRunSkipsWhenConfigInactive(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Active = false
	runs := &stubRunRepo{}
	svc := newTestService(&stubConfigRepo{cfg: cfg, found: true}, runs, &stubStore{}, &stubSource{})

	run, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Status != ingestrun.StatusSkipped {
		t.Fatalf("status = %q, want SKIPPED", run.Status)
	}
}

func TestRunErrorsWithoutTargetTeamID(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.TargetTeamSiteID = ""
	runs := &stubRunRepo{}
	store := &stubStore{}
	svc := newTestService(&stubConfigRepo{cfg: cfg, found: true}, runs, store, &stubSource{})

	run, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error for config problem: %v", err)
	}
	if run.Status != ingestrun.StatusError {
		t.Fatalf("status = %q, want ERROR", run.Status)
	}
	if run.Errors == "" {
		t.Fatalf("errors text not recorded")
	}
	if len(store.plans) != 0 {
		t.Fatalf("store touched despite config error")
	}
	if len(runs.finalized) != 1 || runs.finalized[0].Status != ingestrun.StatusError {
		t.Fatalf("finalized = %+v", runs.finalized)
	}
}

func TestRunFetchFailureRecordsErrorAndPropagates(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("listing page unreachable")
	runs := &stubRunRepo{}
	svc := newTestService(
		&stubConfigRepo{cfg: testConfig(), found: true},
		runs,
		&stubStore{},
		&stubSource{err: fetchErr},
	)

	run, err := svc.Run(context.Background())
	if !errors.Is(err, fetchErr) {
		t.Fatalf("err = %v, want wrapped fetch error", err)
	}
	if run.Status != ingestrun.StatusError {
		t.Fatalf("status = %q, want ERROR", run.Status)
	}
	if run.Errors == "" {
		t.Fatalf("errors text not recorded")
	}
	if len(runs.finalized) != 1 || runs.finalized[0].FinishedAt == nil {
		t.Fatalf("run not finalized on error path")
	}
}

func TestRunPersistenceFailureRecordsErrorAndPropagates(t *testing.T) {
	t.Parallel()

	storeErr := fmt.Errorf("unique constraint violated")
	runs := &stubRunRepo{}
	svc := newTestService(
		&stubConfigRepo{cfg: testConfig(), found: true},
		runs,
		&stubStore{err: storeErr},
		&stubSource{parsed: []ParsedMatch{playedMatch("k1")}},
	)

	run, err := svc.Run(context.Background())
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
	if run.Status != ingestrun.StatusError {
		t.Fatalf("status = %q, want ERROR", run.Status)
	}
	if run.ParsedMatches != 1 {
		t.Fatalf("parsed = %d, want 1", run.ParsedMatches)
	}
}

// cancellingSource cancels the run's parent context before failing, the way a
// deadline expiring mid-fetch would.
type cancellingSource struct {
	cancel context.CancelFunc
}

func (s *cancellingSource) TeamMatchesURL(string) (string, error) {
	return "https://www.ffcv.es/equipo_p_partidos.php?id_equipo=12345", nil
}

func (s *cancellingSource) FetchMatches(ctx context.Context, _, _ string) ([]ParsedMatch, error) {
	s.cancel()
	return nil, ctx.Err()
}

// ctxCheckingRunRepo rejects Finalize when its context is already cancelled,
// like a real database driver would.
type ctxCheckingRunRepo struct {
	stubRunRepo
}

func (s *ctxCheckingRunRepo) Finalize(ctx context.Context, run ingestrun.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.stubRunRepo.Finalize(ctx, run)
}

func TestRunFinalizesAfterContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := &ctxCheckingRunRepo{}
	svc := NewIngestService(
		&stubConfigRepo{cfg: testConfig(), found: true},
		runs,
		&stubStore{},
		func(targetconfig.Config) ResultsSource { return &cancellingSource{cancel: cancel} },
		nil,
	)

	run, err := svc.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if run.Status != ingestrun.StatusError {
		t.Fatalf("status = %q, want ERROR", run.Status)
	}
	if len(runs.finalized) != 1 {
		t.Fatalf("finalized runs = %d, want 1", len(runs.finalized))
	}
	if runs.finalized[0].FinishedAt == nil {
		t.Fatalf("finished_at not set on cancelled run")
	}
}

func TestRunSuccessCounts(t *testing.T) {
	t.Parallel()

	runs := &stubRunRepo{}
	store := &stubStore{result: ApplyResult{Created: 1, Updated: 1}}
	svc := newTestService(
		&stubConfigRepo{cfg: testConfig(), found: true},
		runs,
		store,
		&stubSource{parsed: []ParsedMatch{playedMatch("k1"), playedMatch("k2")}},
	)

	run, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Status != ingestrun.StatusSuccess {
		t.Fatalf("status = %q, want SUCCESS", run.Status)
	}
	if run.ParsedMatches != 2 {
		t.Fatalf("parsed = %d, want 2", run.ParsedMatches)
	}
	if run.UpdatedMatches != 1 {
		t.Fatalf("updated = %d, want 1", run.UpdatedMatches)
	}
	if len(store.plans) != 1 {
		t.Fatalf("plans applied = %d, want 1", len(store.plans))
	}
}
