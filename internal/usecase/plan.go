package usecase

import (
	"strconv"
	"strings"
	"time"

	"github.com/atgilet/ffcv-ingest/internal/domain/targetconfig"
	"github.com/atgilet/ffcv-ingest/internal/domain/team"
)

// TeamUpsert creates a team on first sighting and refreshes its name on every
// later one. The most recent observed spelling wins.
type TeamUpsert struct {
	ExternalID string
	Name       string
	ShieldURL  string
	IsTarget   bool
}

type CompetitionUpsert struct {
	Name       string
	SeasonName string
	SourceURL  string
}

// RoundUpsert is keyed by (competition, round number). RoundDate is only
// written when the round row is first created.
type RoundUpsert struct {
	CompetitionName string
	SeasonName      string
	RoundNumber     int
	RoundDate       *time.Time
}

type VenueUpsert struct {
	Name string
}

// MatchUpsert references its related entities by the same natural keys the
// other upserts carry, so the store can resolve them inside one transaction.
type MatchUpsert struct {
	ExternalKey string

	CompetitionName string
	SeasonName      string
	RoundNumber     *int

	HomeTeamExternalID string
	AwayTeamExternalID string

	KickoffAt  *time.Time
	HomeScore  *int
	AwayScore  *int
	Status     string
	ResultNote string

	VenueName string
	SourceURL string
}

// ReconciliationPlan is the full ordered set of writes one ingestion run
// produces. Slices are deduplicated and ordered parents-first so the store
// can apply them in a single pass.
type ReconciliationPlan struct {
	Teams        []TeamUpsert
	Competitions []CompetitionUpsert
	Rounds       []RoundUpsert
	Venues       []VenueUpsert
	Matches      []MatchUpsert
}

// BuildReconciliationPlan turns parsed rows into entity writes. The target
// team is always present in the plan with is_target forced true, even when
// the page yielded no rows. Opponents without a native identifier are keyed
// by a synthesized auto:<name> identifier.
func BuildReconciliationPlan(cfg targetconfig.Config, parsed []ParsedMatch) ReconciliationPlan {
	plan := ReconciliationPlan{
		Teams:        make([]TeamUpsert, 0, len(parsed)+1),
		Competitions: make([]CompetitionUpsert, 0, 2),
		Rounds:       make([]RoundUpsert, 0, len(parsed)),
		Venues:       make([]VenueUpsert, 0, len(parsed)),
		Matches:      make([]MatchUpsert, 0, len(parsed)),
	}

	targetID := strings.TrimSpace(cfg.TargetTeamSiteID)
	targetName := strings.TrimSpace(cfg.TargetTeamName)

	teamIndex := make(map[string]int, len(parsed)+1)
	upsertTeam := func(t TeamUpsert) string {
		if idx, ok := teamIndex[t.ExternalID]; ok {
			if t.Name != "" {
				plan.Teams[idx].Name = t.Name
			}
			if t.ShieldURL != "" {
				plan.Teams[idx].ShieldURL = t.ShieldURL
			}
			plan.Teams[idx].IsTarget = plan.Teams[idx].IsTarget || t.IsTarget
			return t.ExternalID
		}
		teamIndex[t.ExternalID] = len(plan.Teams)
		plan.Teams = append(plan.Teams, t)
		return t.ExternalID
	}

	upsertTeam(TeamUpsert{ExternalID: targetID, Name: targetName, IsTarget: true})

	compSeen := make(map[string]struct{}, 2)
	roundSeen := make(map[string]struct{}, len(parsed))
	venueSeen := make(map[string]struct{}, len(parsed))

	for _, pm := range parsed {
		home := NormalizeSpace(pm.HomeTeam)
		away := NormalizeSpace(pm.AwayTeam)
		if home == "" || away == "" || pm.ExternalKey == "" {
			continue
		}

		homeID := teamExternalID(home, pm.HomeShieldURL, targetID, targetName, upsertTeam)
		awayID := teamExternalID(away, pm.AwayShieldURL, targetID, targetName, upsertTeam)

		compName := NormalizeSpace(pm.CompetitionName)
		if compName == "" {
			compName = DefaultCompetitionName
		}
		seasonName := NormalizeSpace(pm.SeasonName)
		compKey := compName + "\x00" + seasonName
		if _, ok := compSeen[compKey]; !ok {
			compSeen[compKey] = struct{}{}
			plan.Competitions = append(plan.Competitions, CompetitionUpsert{
				Name:       compName,
				SeasonName: seasonName,
				SourceURL:  pm.SourceURL,
			})
		}

		if pm.RoundNumber != nil {
			roundKey := compKey + "\x00" + strconv.Itoa(*pm.RoundNumber)
			if _, ok := roundSeen[roundKey]; !ok {
				roundSeen[roundKey] = struct{}{}
				plan.Rounds = append(plan.Rounds, RoundUpsert{
					CompetitionName: compName,
					SeasonName:      seasonName,
					RoundNumber:     *pm.RoundNumber,
					RoundDate:       dateOnly(pm.KickoffAt),
				})
			}
		}

		venueName := NormalizeSpace(pm.VenueName)
		if venueName != "" {
			if _, ok := venueSeen[venueName]; !ok {
				venueSeen[venueName] = struct{}{}
				plan.Venues = append(plan.Venues, VenueUpsert{Name: venueName})
			}
		}

		plan.Matches = append(plan.Matches, MatchUpsert{
			ExternalKey:        pm.ExternalKey,
			CompetitionName:    compName,
			SeasonName:         seasonName,
			RoundNumber:        pm.RoundNumber,
			HomeTeamExternalID: homeID,
			AwayTeamExternalID: awayID,
			KickoffAt:          pm.KickoffAt,
			HomeScore:          pm.HomeScore,
			AwayScore:          pm.AwayScore,
			Status:             pm.Status,
			ResultNote:         pm.ResultNote,
			VenueName:          venueName,
			SourceURL:          pm.SourceURL,
		})
	}

	return plan
}

// teamExternalID maps a parsed team name to a stable identifier: the target
// team keeps its configured site identifier, everyone else gets auto:<name>.
func teamExternalID(name, shieldURL, targetID, targetName string, upsert func(TeamUpsert) string) string {
	if targetName != "" && strings.Contains(strings.ToLower(name), strings.ToLower(targetName)) {
		return upsert(TeamUpsert{ExternalID: targetID, Name: name, ShieldURL: shieldURL, IsTarget: true})
	}
	return upsert(TeamUpsert{ExternalID: team.AutoExternalID(name), Name: name, ShieldURL: shieldURL})
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	value := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return &value
}
