package ffcv

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/atgilet/ffcv-ingest/internal/platform/logging"
	"github.com/atgilet/ffcv-ingest/internal/usecase"
)

// structuredTableSelector marks the newer page shape with fixed columns and
// per-match detail links.
const structuredTableSelector = "table.listado_partidos"

type SourceConfig struct {
	BaseURL             string
	TeamMatchesTemplate string
	Logger              *logging.Logger
}

// Source reads the federation's team results page. It probes for the
// structured table layout first and falls back to scanning every table with
// text heuristics, so an unannounced site redesign degrades instead of
// breaking outright.
type Source struct {
	client   *Client
	baseURL  string
	template string
	logger   *logging.Logger
}

var _ usecase.ResultsSource = (*Source)(nil)

func NewSource(client *Client, cfg SourceConfig) *Source {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Source{
		client:   client,
		baseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		template: cfg.TeamMatchesTemplate,
		logger:   logger,
	}
}

func (s *Source) TeamMatchesURL(teamSiteID string) (string, error) {
	return BuildTeamMatchesURL(s.baseURL, s.template, teamSiteID)
}

func (s *Source) FetchMatches(ctx context.Context, teamSiteID, targetTeamName string) ([]usecase.ParsedMatch, error) {
	pageURL, err := s.TeamMatchesURL(teamSiteID)
	if err != nil {
		return nil, err
	}

	html, err := s.client.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", pageURL, err)
	}

	base, err := url.Parse(s.baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var parsed []usecase.ParsedMatch
	if doc.Find(structuredTableSelector).Length() > 0 {
		parsed = s.parseStructuredTables(ctx, doc, base, pageURL)
	} else {
		parsed = parseHeuristicTables(doc, base, pageURL)
	}

	out := make([]usecase.ParsedMatch, 0, len(parsed))
	for _, pm := range parsed {
		if !involvesTeam(pm, targetTeamName) {
			continue
		}
		out = append(out, pm)
	}

	s.logger.InfoContext(ctx, "parsed results page",
		"url", pageURL,
		"rows", len(parsed),
		"target_rows", len(out),
	)
	return out, nil
}

func involvesTeam(pm usecase.ParsedMatch, teamName string) bool {
	name := strings.TrimSpace(teamName)
	if name == "" {
		return false
	}
	return containsFold(pm.HomeTeam, name) || containsFold(pm.AwayTeam, name)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
