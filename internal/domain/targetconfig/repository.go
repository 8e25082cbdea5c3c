package targetconfig

import "context"

type Repository interface {
	// Get returns the singleton config row. The second return value reports
	// whether a row exists at all.
	Get(ctx context.Context) (Config, bool, error)

	// Create inserts the singleton row. It fails if a row already exists.
	Create(ctx context.Context, cfg Config) (Config, error)
}
