package ingestrun

import "time"

// Run outcome values. Every run ends in exactly one of these.
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
	StatusSkipped = "SKIPPED"
)

// Run is the audit record for a single ingestion attempt. A row is created as
// soon as the attempt starts and finalized on every exit path, including
// error paths, so operators can always see what the last run did.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt *time.Time

	Status         string
	ParsedMatches  int
	UpdatedMatches int

	// Errors holds newline-separated error descriptions accumulated during
	// the run. Empty when the run finished clean.
	Errors string
}
