package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusPlayed    = "PLAYED"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
	StatusUnknown   = "UNKNOWN"
)

// Match is the central ingested fact. ExternalKey is the stable identity a
// re-ingestion upserts against; all other ingested fields are overwritten by
// the freshest parse.
type Match struct {
	ID              int64
	ExternalKey     string
	CompetitionName string
	SeasonName      string
	RoundNumber     *int
	KickoffAt       *time.Time
	HomeTeam        string
	AwayTeam        string
	HomeScore       *int
	AwayScore       *int
	Status          string
	ResultNote      string
	VenueName       string
	SourceURL       string
	IsTargetMatch   bool
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	switch status {
	case StatusScheduled, StatusPlayed, StatusPostponed, StatusCancelled, StatusUnknown:
		return status
	case "":
		return StatusUnknown
	default:
		return StatusUnknown
	}
}

// InferStatus applies the source-site heuristics: a parsed score pair means the
// match was played; otherwise postponement and cancellation markers in the row
// text (Spanish abbreviations plus their English stems) decide, defaulting to
// scheduled.
func InferStatus(rowText string, hasScores bool) string {
	if hasScores {
		return StatusPlayed
	}

	lowered := strings.ToLower(rowText)
	switch {
	case strings.Contains(lowered, "aplaz") || strings.Contains(lowered, "suspend"):
		return StatusPostponed
	case strings.Contains(lowered, "anul") || strings.Contains(lowered, "cancel"):
		return StatusCancelled
	default:
		return StatusScheduled
	}
}
