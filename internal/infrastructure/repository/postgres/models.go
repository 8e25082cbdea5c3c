package postgres

import "time"

type teamTableModel struct {
	ID         int64     `db:"id"`
	ExternalID string    `db:"external_id"`
	Name       string    `db:"name"`
	ShieldURL  string    `db:"shield_url"`
	IsTarget   bool      `db:"is_target"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	ExternalID string `db:"external_id"`
	Name       string `db:"name"`
	ShieldURL  string `db:"shield_url"`
	IsTarget   bool   `db:"is_target"`
}

type competitionInsertModel struct {
	Name       string `db:"name"`
	SeasonName string `db:"season_name"`
	SourceURL  string `db:"source_url"`
	IsActive   bool   `db:"is_active"`
}

type roundInsertModel struct {
	CompetitionID int64      `db:"competition_id"`
	RoundNumber   int        `db:"round_number"`
	RoundDate     *time.Time `db:"round_date"`
}

type venueInsertModel struct {
	Name string `db:"name"`
}

type matchInsertModel struct {
	ExternalKey   string     `db:"external_key"`
	CompetitionID int64      `db:"competition_id"`
	RoundID       *int64     `db:"round_id"`
	HomeTeamID    int64      `db:"home_team_id"`
	AwayTeamID    int64      `db:"away_team_id"`
	KickoffAt     *time.Time `db:"kickoff_at"`
	HomeScore     *int       `db:"home_score"`
	AwayScore     *int       `db:"away_score"`
	Status        string     `db:"status"`
	ResultNote    string     `db:"result_note"`
	VenueID       *int64     `db:"venue_id"`
	SourceURL     string     `db:"source_url"`
	IsTargetMatch bool       `db:"is_target_match"`
}

type matchListRowModel struct {
	ID              int64      `db:"id"`
	ExternalKey     string     `db:"external_key"`
	CompetitionName string     `db:"competition_name"`
	SeasonName      string     `db:"season_name"`
	RoundNumber     *int       `db:"round_number"`
	KickoffAt       *time.Time `db:"kickoff_at"`
	HomeTeam        string     `db:"home_team"`
	AwayTeam        string     `db:"away_team"`
	HomeScore       *int       `db:"home_score"`
	AwayScore       *int       `db:"away_score"`
	Status          string     `db:"status"`
	ResultNote      string     `db:"result_note"`
	VenueName       *string    `db:"venue_name"`
	SourceURL       string     `db:"source_url"`
	IsTargetMatch   bool       `db:"is_target_match"`
}

type targetConfigTableModel struct {
	ID                  int64  `db:"id"`
	TargetTeamName      string `db:"target_team_name"`
	TargetTeamSiteID    string `db:"target_team_external_id"`
	BaseURL             string `db:"base_url"`
	TeamMatchesTemplate string `db:"team_matches_url_template"`
	CalendarTemplate    string `db:"calendar_url_template"`
	StandingsTemplate   string `db:"standings_url_template"`
	PollIntervalMinutes int    `db:"poll_interval_minutes"`
	IsActive            bool   `db:"is_active"`
}

type targetConfigInsertModel struct {
	TargetTeamName      string `db:"target_team_name"`
	TargetTeamSiteID    string `db:"target_team_external_id"`
	BaseURL             string `db:"base_url"`
	TeamMatchesTemplate string `db:"team_matches_url_template"`
	CalendarTemplate    string `db:"calendar_url_template"`
	StandingsTemplate   string `db:"standings_url_template"`
	PollIntervalMinutes int    `db:"poll_interval_minutes"`
	IsActive            bool   `db:"is_active"`
}

type ingestionRunTableModel struct {
	ID             int64      `db:"id"`
	StartedAt      time.Time  `db:"started_at"`
	FinishedAt     *time.Time `db:"finished_at"`
	Status         string     `db:"status"`
	ParsedMatches  int        `db:"parsed_matches"`
	UpdatedMatches int        `db:"updated_matches"`
	Errors         string     `db:"errors"`
}

type ingestionRunInsertModel struct {
	StartedAt time.Time `db:"started_at"`
	Status    string    `db:"status"`
	Errors    string    `db:"errors"`
}
