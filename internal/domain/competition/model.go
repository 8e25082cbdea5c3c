package competition

import "time"

// Context is one edition of a competition, identified by (name, season).
// Season is empty when listing pages do not expose it; the pair must still be
// unique so re-ingestions resolve the same row.
type Context struct {
	ID         int64
	Name       string
	SeasonName string
	SourceURL  string
	IsActive   bool
}

// Round is a numbered matchday inside a competition edition. RoundDate is set
// once at creation from the first observed kickoff and never updated.
type Round struct {
	ID            int64
	CompetitionID int64
	RoundNumber   int
	RoundDate     *time.Time
}
