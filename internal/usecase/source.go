package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultCompetitionName is used when a page never states which competition
// its rows belong to.
const DefaultCompetitionName = "FFCV Competition (auto)"

// ParsedMatch is one match row extracted from a results page, before any
// reconciliation against stored entities.
type ParsedMatch struct {
	// ExternalKey identifies the match across runs. Either a native site
	// identifier or a synthesized key from BuildMatchKey.
	ExternalKey string

	HomeTeam string
	AwayTeam string

	HomeShieldURL string
	AwayShieldURL string

	HomeScore *int
	AwayScore *int
	Status    string

	KickoffAt   *time.Time
	RoundNumber *int
	VenueName   string

	CompetitionName string
	SeasonName      string

	// SourceURL is the page the row was extracted from, or the detail page
	// when one was consulted.
	SourceURL string

	// ResultNote carries leftover row text worth keeping, such as
	// postponement remarks.
	ResultNote string
}

// ResultsSource turns a fetched results page into match rows. Implementations
// decide which page shape they are looking at.
type ResultsSource interface {
	// TeamMatchesURL builds the URL of the target team's results page.
	TeamMatchesURL(teamSiteID string) (string, error)

	// FetchMatches fetches and parses the page, returning only rows that
	// involve the named target team.
	FetchMatches(ctx context.Context, teamSiteID, targetTeamName string) ([]ParsedMatch, error)
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeSpace collapses runs of whitespace to single spaces and trims.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// BuildMatchKey synthesizes a stable identifier for a match row that has no
// native site identifier. The same fixture parsed on different days yields
// the same key as long as team names, kickoff and round are unchanged.
func BuildMatchKey(home, away string, kickoffAt *time.Time, roundNumber *int, sourceURL string) string {
	datePart := "nodt"
	if kickoffAt != nil {
		datePart = kickoffAt.Format("200601021504")
	}
	roundPart := "nornd"
	if roundNumber != nil {
		roundPart = fmt.Sprintf("%d", *roundNumber)
	}
	key := fmt.Sprintf("%s|%s|%s|%s|%s",
		NormalizeSpace(home),
		NormalizeSpace(away),
		datePart,
		roundPart,
		strings.TrimSpace(sourceURL),
	)
	return NormalizeSpace(key)
}
