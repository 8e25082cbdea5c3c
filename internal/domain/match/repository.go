package match

import "context"

// Repository exposes match read operations for the status surface. Writes go
// through the ingestion store only.
type Repository interface {
	ListTarget(ctx context.Context) ([]Match, error)
}
