package team

import "context"

// Repository exposes team read operations. Writes happen only through the
// ingestion store's transactional apply.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByExternalID(ctx context.Context, externalID string) (Team, bool, error)
}
