package standings

import "time"

// Snapshot and Row mirror the standings tables kept in the schema for a future
// standings-page ingestion. No flow populates them yet; the shape is fixed now
// so dashboards can rely on it once that ingestion lands.

type Snapshot struct {
	ID            int64
	CompetitionID int64
	RoundID       *int64
	CapturedAt    time.Time
	SourceURL     string
	IsCurrent     bool
}

type Row struct {
	ID         int64
	SnapshotID int64
	TeamID     int64

	Position int
	Played   int
	Wins     int
	Draws    int
	Losses   int

	GoalsFor     int
	GoalsAgainst int
	GoalDiff     int
	Points       int
}
