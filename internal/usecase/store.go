package usecase

import "context"

// ApplyResult reports what one plan application did to the match table.
// Updated counts matches that already existed; Created counts new rows.
type ApplyResult struct {
	Created int
	Updated int
}

// MatchStore applies a reconciliation plan atomically: either every write in
// the plan lands or none of them do. Implementations run one transaction per
// call.
type MatchStore interface {
	ApplyPlan(ctx context.Context, plan ReconciliationPlan) (ApplyResult, error)
}
