package ffcv

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/valyala/bytebufferpool"

	"github.com/atgilet/ffcv-ingest/internal/domain/match"
	"github.com/atgilet/ffcv-ingest/internal/usecase"
)

var (
	// "HOME - AWAY" immediately followed by a numeric score or end of text.
	teamPairRegex = regexp.MustCompile(`(.+?)\s*-\s*(.+?)(?:\s+\d+\s*-\s*\d+|$)`)
	scoreRegex    = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	datetimeRegex = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{4}).*?(\d{1,2}):(\d{2})`)
	roundRegex    = regexp.MustCompile(`(?i)Jornada\s*(\d+)`)
	venueRegex    = regexp.MustCompile(`(?i)(?:Campo|Pabell[oó]n|Instalaci[oó]n)\s*:\s*([^|]+)$`)

	// On scheduled rows there is no score to stop the team-pair capture, so
	// the away group runs to the end of the row text. Everything from the
	// first date, round or venue token onward belongs to other columns.
	trailingTokenRegex = regexp.MustCompile(`(?i)\s+(?:\d{1,2}[/\-]\d{1,2}[/\-]\d{4}|Jornada\s*\d+|(?:Campo|Pabell[oó]n|Instalaci[oó]n)\s*:).*$`)
)

// parseHeuristicTables scans every table on the page and treats any row that
// looks like "HOME - AWAY [score] ..." as a match row. Rows that do not fit
// the shape are skipped silently: listing pages carry headers, separators and
// ads between the rows that matter.
func parseHeuristicTables(doc *goquery.Document, base *url.URL, pageURL string) []usecase.ParsedMatch {
	parsed := make([]usecase.ParsedMatch, 0, 32)

	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		rows := tbl.Find("tr")
		if rows.Length() < 2 {
			return
		}

		rows.Slice(1, rows.Length()).Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td, th")
			if cells.Length() < 4 {
				return
			}

			rowText := rowTextFromCells(cells)
			if !strings.Contains(rowText, "-") {
				return
			}

			pm, ok := parseHeuristicRow(tr, rowText, base, pageURL)
			if !ok {
				return
			}
			parsed = append(parsed, pm)
		})
	})

	return parsed
}

func parseHeuristicRow(tr *goquery.Selection, rowText string, base *url.URL, pageURL string) (usecase.ParsedMatch, bool) {
	sourceURL := pageURL
	if href, ok := tr.Find("a[href]").First().Attr("href"); ok {
		if resolved := resolveURL(base, href); resolved != "" {
			sourceURL = resolved
		}
	}

	teams := teamPairRegex.FindStringSubmatch(rowText)
	if teams == nil {
		return usecase.ParsedMatch{}, false
	}
	home := strings.TrimSpace(teams[1])
	away := strings.TrimSpace(trailingTokenRegex.ReplaceAllString(teams[2], ""))
	if home == "" || away == "" {
		return usecase.ParsedMatch{}, false
	}

	var homeScore, awayScore *int
	if score := scoreRegex.FindStringSubmatch(rowText); score != nil {
		homeScore = atoiPtr(score[1])
		awayScore = atoiPtr(score[2])
	}

	kickoffAt := extractDateTime(rowText)
	roundNumber := extractRound(rowText)

	pm := usecase.ParsedMatch{
		HomeTeam:        home,
		AwayTeam:        away,
		HomeScore:       homeScore,
		AwayScore:       awayScore,
		Status:          match.InferStatus(rowText, homeScore != nil && awayScore != nil),
		KickoffAt:       kickoffAt,
		RoundNumber:     roundNumber,
		VenueName:       extractVenue(rowText),
		CompetitionName: usecase.DefaultCompetitionName,
		SourceURL:       sourceURL,
	}
	pm.ExternalKey = usecase.BuildMatchKey(home, away, kickoffAt, roundNumber, sourceURL)
	return pm, true
}

// rowTextFromCells joins cell texts with single spaces, collapsing the
// whitespace goquery leaves around nested markup.
func rowTextFromCells(cells *goquery.Selection) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	cells.Each(func(i int, cell *goquery.Selection) {
		text := usecase.NormalizeSpace(cell.Text())
		if text == "" {
			return
		}
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(text)
	})

	return buf.String()
}

func extractDateTime(text string) *time.Time {
	m := datetimeRegex.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 {
		return nil
	}
	value := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	return &value
}

func extractRound(text string) *int {
	m := roundRegex.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return atoiPtr(m[1])
}

func extractVenue(text string) string {
	m := venueRegex.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func atoiPtr(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}
