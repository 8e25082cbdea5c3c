package ingestrun

import "context"

type Repository interface {
	// Create inserts a new run row with its start time and an initial status,
	// returning the stored run with its ID populated.
	Create(ctx context.Context, run Run) (Run, error)

	// Finalize writes the terminal status, counters, error text and finish
	// time for an existing run.
	Finalize(ctx context.Context, run Run) error

	// ListRecent returns the most recent runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]Run, error)
}
