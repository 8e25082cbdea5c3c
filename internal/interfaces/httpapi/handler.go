package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atgilet/ffcv-ingest/internal/domain/ingestrun"
	"github.com/atgilet/ffcv-ingest/internal/domain/match"
	"github.com/atgilet/ffcv-ingest/internal/domain/team"
	"github.com/atgilet/ffcv-ingest/internal/platform/logging"
	"github.com/atgilet/ffcv-ingest/internal/usecase"
)

type Handler struct {
	ingestService *usecase.IngestService
	statusService *usecase.StatusService
	logger        *logging.Logger
}

func NewHandler(
	ingestService *usecase.IngestService,
	statusService *usecase.StatusService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		ingestService: ingestService,
		statusService: statusService,
		logger:        logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListIngestionRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListIngestionRuns")
	defer span.End()

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	runs, err := h.statusService.RecentRuns(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list ingestion runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ingestionRunDTO, 0, len(runs))
	for _, run := range runs {
		items = append(items, newIngestionRunDTO(run))
	}
	writeSuccess(ctx, w, http.StatusOK, ingestionRunListDTO{Items: items})
}

func (h *Handler) ListTargetMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTargetMatches")
	defer span.End()

	matches, err := h.statusService.TargetMatches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list target matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, newMatchDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, matchListDTO{Items: items})
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.statusService.Teams(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, newTeamDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, teamListDTO{Items: items})
}

func (h *Handler) RunIngestJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestJob")
	defer span.End()

	run, err := h.ingestService.Run(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "manual ingestion run failed", "run_id", run.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, newIngestionRunDTO(run))
}

type ingestionRunListDTO struct {
	Items []ingestionRunDTO `json:"items"`
}

type ingestionRunDTO struct {
	ID             int64      `json:"id"`
	StartedAt      time.Time  `json:"startedAt"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty"`
	Status         string     `json:"status"`
	ParsedMatches  int        `json:"parsedMatches"`
	UpdatedMatches int        `json:"updatedMatches"`
	Errors         string     `json:"errors,omitempty"`
}

func newIngestionRunDTO(run ingestrun.Run) ingestionRunDTO {
	return ingestionRunDTO{
		ID:             run.ID,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
		Status:         run.Status,
		ParsedMatches:  run.ParsedMatches,
		UpdatedMatches: run.UpdatedMatches,
		Errors:         run.Errors,
	}
}

type teamListDTO struct {
	Items []teamDTO `json:"items"`
}

type teamDTO struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"externalId"`
	Name       string `json:"name"`
	ShieldURL  string `json:"shieldUrl,omitempty"`
	IsTarget   bool   `json:"isTarget"`
}

func newTeamDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:         t.ID,
		ExternalID: t.ExternalID,
		Name:       t.Name,
		ShieldURL:  t.ShieldURL,
		IsTarget:   t.IsTarget,
	}
}

type matchListDTO struct {
	Items []matchDTO `json:"items"`
}

type matchDTO struct {
	ID          int64      `json:"id"`
	ExternalKey string     `json:"externalKey"`
	Competition string     `json:"competition"`
	Season      string     `json:"season,omitempty"`
	RoundNumber *int       `json:"roundNumber,omitempty"`
	KickoffAt   *time.Time `json:"kickoffAt,omitempty"`
	HomeTeam    string     `json:"homeTeam"`
	AwayTeam    string     `json:"awayTeam"`
	HomeScore   *int       `json:"homeScore,omitempty"`
	AwayScore   *int       `json:"awayScore,omitempty"`
	Status      string     `json:"status"`
	ResultNote  string     `json:"resultNote,omitempty"`
	Venue       string     `json:"venue,omitempty"`
	SourceURL   string     `json:"sourceUrl,omitempty"`
}

func newMatchDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:          m.ID,
		ExternalKey: m.ExternalKey,
		Competition: m.CompetitionName,
		Season:      m.SeasonName,
		RoundNumber: m.RoundNumber,
		KickoffAt:   m.KickoffAt,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
		Status:      m.Status,
		ResultNote:  m.ResultNote,
		Venue:       m.VenueName,
		SourceURL:   m.SourceURL,
	}
}
