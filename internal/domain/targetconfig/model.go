package targetconfig

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Defaults applied when a config row is created without explicit values.
const (
	DefaultBaseURL             = "https://www.ffcv.es"
	DefaultTeamMatchesTemplate = "/equipo_p_partidos.php?id_equipo={team_id}"
	DefaultPollIntervalMinutes = 60
)

// TeamIDPlaceholder is the token substituted with the target team's site
// identifier when building the team matches URL.
const TeamIDPlaceholder = "{team_id}"

// Config is the singleton describing which team to ingest and where the
// source site lives. At most one row exists; the schema enforces this with a
// constant-key unique column.
type Config struct {
	ID int64

	TargetTeamName   string `validate:"required"`
	TargetTeamSiteID string

	BaseURL             string `validate:"required,url"`
	TeamMatchesTemplate string `validate:"required,team_id_template"`

	// CalendarTemplate and StandingsTemplate are stored for future surfaces;
	// no ingestion flow reads them yet.
	CalendarTemplate  string `validate:"omitempty,team_id_template"`
	StandingsTemplate string

	PollIntervalMinutes int  `validate:"gte=1"`
	Active              bool `validate:"-"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag, which is fixed here.
	_ = v.RegisterValidation("team_id_template", func(fl validator.FieldLevel) bool {
		return strings.Contains(fl.Field().String(), TeamIDPlaceholder)
	})
	return v
}

// Validate checks that the config is complete enough to drive a run.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// WithDefaults fills zero-valued fields with the package defaults.
func (c Config) WithDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.TeamMatchesTemplate == "" {
		c.TeamMatchesTemplate = DefaultTeamMatchesTemplate
	}
	if c.PollIntervalMinutes == 0 {
		c.PollIntervalMinutes = DefaultPollIntervalMinutes
	}
	return c
}
