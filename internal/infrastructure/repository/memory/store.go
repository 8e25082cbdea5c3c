// Package memory holds in-memory repository implementations used by tests
// and local development. They mirror the postgres semantics, including
// all-or-nothing plan application.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/atgilet/ffcv-ingest/internal/domain/match"
	"github.com/atgilet/ffcv-ingest/internal/domain/team"
	"github.com/atgilet/ffcv-ingest/internal/usecase"
)

type storedTeam struct {
	id        int64
	name      string
	shieldURL string
	isTarget  bool
}

type storedRound struct {
	roundNumber int
	roundDate   *time.Time
}

type storedMatch struct {
	id     int64
	upsert usecase.MatchUpsert
}

// Store keeps every ingested entity in maps keyed the same way the relational
// schema is. ApplyPlan stages all writes on copies and swaps them in only
// when the whole plan succeeded, so a mid-plan failure leaves prior state
// untouched.
type Store struct {
	mu sync.RWMutex

	nextID       int64
	teams        map[string]storedTeam  // external id
	competitions map[string]string      // name\x00season -> source url
	rounds       map[string]storedRound // name\x00season\x00number
	venues       map[string]struct{}    // exact name
	matches      map[string]storedMatch // external key

	// FailOnMatch makes ApplyPlan fail right before the nth match (1-based)
	// would be written. Zero disables the injection.
	FailOnMatch int
}

var (
	_ usecase.MatchStore = (*Store)(nil)
	_ team.Repository    = (*Store)(nil)
	_ match.Repository   = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		teams:        make(map[string]storedTeam),
		competitions: make(map[string]string),
		rounds:       make(map[string]storedRound),
		venues:       make(map[string]struct{}),
		matches:      make(map[string]storedMatch),
	}
}

func (s *Store) ApplyPlan(_ context.Context, plan usecase.ReconciliationPlan) (usecase.ApplyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	teams := make(map[string]storedTeam, len(s.teams)+len(plan.Teams))
	for k, v := range s.teams {
		teams[k] = v
	}
	competitions := make(map[string]string, len(s.competitions)+len(plan.Competitions))
	for k, v := range s.competitions {
		competitions[k] = v
	}
	rounds := make(map[string]storedRound, len(s.rounds)+len(plan.Rounds))
	for k, v := range s.rounds {
		rounds[k] = v
	}
	venues := make(map[string]struct{}, len(s.venues)+len(plan.Venues))
	for k := range s.venues {
		venues[k] = struct{}{}
	}
	matches := make(map[string]storedMatch, len(s.matches)+len(plan.Matches))
	for k, v := range s.matches {
		matches[k] = v
	}

	nextID := s.nextID
	newID := func() int64 {
		nextID++
		return nextID
	}

	for _, t := range plan.Teams {
		if strings.TrimSpace(t.ExternalID) == "" {
			return usecase.ApplyResult{}, fmt.Errorf("team external id is required")
		}
		current, ok := teams[t.ExternalID]
		if !ok {
			current = storedTeam{id: newID()}
		}
		if t.Name != "" {
			current.name = t.Name
		}
		if t.ShieldURL != "" {
			current.shieldURL = t.ShieldURL
		}
		current.isTarget = current.isTarget || t.IsTarget
		teams[t.ExternalID] = current
	}

	for _, c := range plan.Competitions {
		key := c.Name + "\x00" + c.SeasonName
		if _, ok := competitions[key]; !ok {
			competitions[key] = c.SourceURL
		}
	}

	for _, r := range plan.Rounds {
		key := fmt.Sprintf("%s\x00%s\x00%d", r.CompetitionName, r.SeasonName, r.RoundNumber)
		if _, ok := rounds[key]; !ok {
			rounds[key] = storedRound{roundNumber: r.RoundNumber, roundDate: r.RoundDate}
		}
	}

	for _, v := range plan.Venues {
		venues[v.Name] = struct{}{}
	}

	var result usecase.ApplyResult
	for i, m := range plan.Matches {
		if s.FailOnMatch > 0 && i+1 == s.FailOnMatch {
			return usecase.ApplyResult{}, fmt.Errorf("injected failure on match %d", s.FailOnMatch)
		}
		current, ok := matches[m.ExternalKey]
		if ok {
			result.Updated++
		} else {
			result.Created++
			current = storedMatch{id: newID()}
		}
		current.upsert = m
		matches[m.ExternalKey] = current
	}

	s.teams = teams
	s.competitions = competitions
	s.rounds = rounds
	s.venues = venues
	s.matches = matches
	s.nextID = nextID
	return result, nil
}

func (s *Store) List(_ context.Context) ([]team.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]team.Team, 0, len(s.teams))
	for externalID, t := range s.teams {
		out = append(out, team.Team{
			ID:         t.id,
			ExternalID: externalID,
			Name:       t.name,
			ShieldURL:  t.shieldURL,
			IsTarget:   t.isTarget,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetByExternalID(_ context.Context, externalID string) (team.Team, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[externalID]
	if !ok {
		return team.Team{}, false, nil
	}
	return team.Team{
		ID:         t.id,
		ExternalID: externalID,
		Name:       t.name,
		ShieldURL:  t.shieldURL,
		IsTarget:   t.isTarget,
	}, true, nil
}

func (s *Store) ListTarget(_ context.Context) ([]match.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]match.Match, 0, len(s.matches))
	for key, m := range s.matches {
		u := m.upsert
		row := match.Match{
			ID:              m.id,
			ExternalKey:     key,
			CompetitionName: u.CompetitionName,
			SeasonName:      u.SeasonName,
			RoundNumber:     u.RoundNumber,
			KickoffAt:       u.KickoffAt,
			HomeTeam:        s.teamName(u.HomeTeamExternalID),
			AwayTeam:        s.teamName(u.AwayTeamExternalID),
			HomeScore:       u.HomeScore,
			AwayScore:       u.AwayScore,
			Status:          u.Status,
			ResultNote:      u.ResultNote,
			VenueName:       u.VenueName,
			SourceURL:       u.SourceURL,
			IsTargetMatch:   true,
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := out[i].KickoffAt, out[j].KickoffAt
		if ki == nil || kj == nil {
			if (ki == nil) != (kj == nil) {
				return kj == nil
			}
			return out[i].ExternalKey < out[j].ExternalKey
		}
		if !ki.Equal(*kj) {
			return ki.Before(*kj)
		}
		return out[i].ExternalKey < out[j].ExternalKey
	})
	return out, nil
}

// MatchCount reports how many distinct matches are stored.
func (s *Store) MatchCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}

func (s *Store) teamName(externalID string) string {
	if t, ok := s.teams[externalID]; ok {
		return t.name
	}
	return ""
}
