package ffcv

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/atgilet/ffcv-ingest/internal/domain/match"
	"github.com/atgilet/ffcv-ingest/internal/usecase"
)

// Structured listing layout: a date separator row applies to every match row
// below it until the next separator. Match rows keep a fixed column order and
// link to a per-match detail page whose query string carries the native match
// identifier.
const (
	structuredColKickoff = 0
	structuredColHome    = 1
	structuredColScore   = 2
	structuredColAway    = 3
	structuredColVenue   = 4

	detailPagePath = "/partido_p_detalle.php"

	// NativeKeyPrefix namespaces native site identifiers in external keys.
	NativeKeyPrefix = "ffcv:"
)

var (
	dateOnlyRegex = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`)
	timeOnlyRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

var matchIDParams = []string{"id_partido", "id"}

func (s *Source) parseStructuredTables(ctx context.Context, doc *goquery.Document, base *url.URL, pageURL string) []usecase.ParsedMatch {
	parsed := make([]usecase.ParsedMatch, 0, 32)

	doc.Find(structuredTableSelector).Each(func(_ int, tbl *goquery.Selection) {
		var currentDate *time.Time

		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td, th")

			if date, ok := parseDateSeparator(cells); ok {
				currentDate = date
				return
			}
			if cells.Length() <= structuredColAway {
				return
			}

			pm, ok := s.parseStructuredRow(ctx, tr, cells, currentDate, base, pageURL)
			if !ok {
				return
			}
			parsed = append(parsed, pm)
		})
	})

	return parsed
}

// parseDateSeparator recognizes the thin rows that carry only a date label.
func parseDateSeparator(cells *goquery.Selection) (*time.Time, bool) {
	if cells.Length() == 0 || cells.Length() > 2 {
		return nil, false
	}
	text := usecase.NormalizeSpace(cells.Text())
	m := dateOnlyRegex.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil, false
	}
	value := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &value, true
}

func (s *Source) parseStructuredRow(ctx context.Context, tr *goquery.Selection, cells *goquery.Selection, rowDate *time.Time, base *url.URL, pageURL string) (usecase.ParsedMatch, bool) {
	home := usecase.NormalizeSpace(cells.Eq(structuredColHome).Text())
	away := usecase.NormalizeSpace(cells.Eq(structuredColAway).Text())
	if home == "" || away == "" {
		return usecase.ParsedMatch{}, false
	}

	detailHref, _ := tr.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		return extractMatchID(href) != ""
	}).First().Attr("href")

	matchID := extractMatchID(detailHref)
	if matchID == "" {
		// Without a native identifier this row cannot be keyed reliably.
		return usecase.ParsedMatch{}, false
	}

	sourceURL := pageURL
	if resolved := resolveURL(base, detailHref); resolved != "" {
		sourceURL = resolved
	}

	rowText := rowTextFromCells(cells)

	var homeScore, awayScore *int
	scoreText := usecase.NormalizeSpace(cells.Eq(structuredColScore).Text())
	if m := scoreRegex.FindStringSubmatch(scoreText); m != nil {
		homeScore = atoiPtr(m[1])
		awayScore = atoiPtr(m[2])
	}

	kickoffAt := combineDateAndTime(rowDate, usecase.NormalizeSpace(cells.Eq(structuredColKickoff).Text()))

	venue := ""
	if cells.Length() > structuredColVenue {
		venue = usecase.NormalizeSpace(cells.Eq(structuredColVenue).Text())
	}

	pm := usecase.ParsedMatch{
		ExternalKey:     NativeKeyPrefix + matchID,
		HomeTeam:        home,
		AwayTeam:        away,
		HomeShieldURL:   shieldURL(cells.Eq(structuredColHome), base),
		AwayShieldURL:   shieldURL(cells.Eq(structuredColAway), base),
		HomeScore:       homeScore,
		AwayScore:       awayScore,
		Status:          match.InferStatus(rowText, homeScore != nil && awayScore != nil),
		KickoffAt:       kickoffAt,
		RoundNumber:     extractRound(rowText),
		VenueName:       venue,
		CompetitionName: usecase.DefaultCompetitionName,
		SourceURL:       sourceURL,
	}

	if pm.KickoffAt == nil || pm.VenueName == "" {
		s.enrichFromDetailPage(ctx, &pm, base, detailHref)
	}

	return pm, true
}

// enrichFromDetailPage makes at most one extra fetch to fill kickoff and
// venue. A failure here costs only those two fields for this one match.
func (s *Source) enrichFromDetailPage(ctx context.Context, pm *usecase.ParsedMatch, base *url.URL, detailHref string) {
	detailURL := buildDetailURL(base, detailHref)
	if detailURL == "" {
		return
	}

	html, err := s.client.FetchPage(ctx, detailURL)
	if err != nil {
		s.logger.WarnContext(ctx, "match detail fetch failed, keeping listing fields",
			"url", detailURL,
			"external_key", pm.ExternalKey,
			"error", err,
		)
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		s.logger.WarnContext(ctx, "match detail parse failed, keeping listing fields",
			"url", detailURL,
			"external_key", pm.ExternalKey,
			"error", err,
		)
		return
	}

	detailText := usecase.NormalizeSpace(doc.Text())
	if pm.KickoffAt == nil {
		pm.KickoffAt = extractDateTime(detailText)
	}
	if pm.VenueName == "" {
		if m := venueLabelRegex.FindStringSubmatch(detailText); m != nil {
			pm.VenueName = strings.TrimSpace(m[1])
		}
	}
	pm.SourceURL = detailURL
}

// venueLabelRegex is the detail-page variant of the venue label: anything up
// to the next field label or end of line, not anchored at end of text.
var venueLabelRegex = regexp.MustCompile(`(?i)(?:Campo|Pabell[oó]n|Instalaci[oó]n)\s*:\s*([^|:]+?)(?:\s+\p{Lu}[\p{L} ]*:|$)`)

// buildDetailURL rebuilds the detail-page URL by copying the match link's
// query parameters onto the detail path.
func buildDetailURL(base *url.URL, detailHref string) string {
	ref, err := url.Parse(strings.TrimSpace(detailHref))
	if err != nil || ref.RawQuery == "" {
		return ""
	}
	detail := &url.URL{Path: detailPagePath, RawQuery: ref.RawQuery}
	if base == nil {
		return detail.String()
	}
	return base.ResolveReference(detail).String()
}

// extractMatchID pulls the native match identifier from a detail link's
// query string.
func extractMatchID(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	values := ref.Query()
	for _, param := range matchIDParams {
		if id := strings.TrimSpace(values.Get(param)); id != "" {
			return id
		}
	}
	return ""
}

func combineDateAndTime(rowDate *time.Time, timeText string) *time.Time {
	if rowDate == nil {
		return nil
	}
	m := timeOnlyRegex.FindStringSubmatch(timeText)
	if m == nil {
		return nil
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return nil
	}
	value := time.Date(rowDate.Year(), rowDate.Month(), rowDate.Day(), hour, minute, 0, 0, time.UTC)
	return &value
}

func shieldURL(cell *goquery.Selection, base *url.URL) string {
	src, ok := cell.Find("img[src]").First().Attr("src")
	if !ok {
		return ""
	}
	return resolveURL(base, src)
}
