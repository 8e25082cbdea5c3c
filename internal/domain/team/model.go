package team

import (
	"fmt"
	"strings"
)

// AutoIDPrefix marks external ids synthesized for opponents the source site
// never exposed a native identifier for.
const AutoIDPrefix = "auto:"

// Team is one club observed on the results site. The configured target club
// carries IsTarget; opponents are created on first sighting.
type Team struct {
	ID         int64
	ExternalID string
	Name       string
	ShieldURL  string
	IsTarget   bool
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ExternalID) == "" {
		return fmt.Errorf("team external id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// AutoExternalID builds the synthesized identifier for an opponent known only
// by its displayed name. Stable for a given spelling; a spelling change yields
// a new team row, which matches the source behavior.
func AutoExternalID(name string) string {
	return AutoIDPrefix + strings.TrimSpace(name)
}
