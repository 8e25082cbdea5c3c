// Package ffcv talks to the federation results site: fetching team and match
// pages and parsing them into provider-neutral match rows.
package ffcv

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/atgilet/ffcv-ingest/internal/platform/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultUserAgent = "ATGiletBot/1.0 (+results-ingest; contact: admin)"
	defaultTimeout   = 30 * time.Second

	maxPageBytes = 4 << 20
)

var errFetch = crerr.New("ffcv fetch failed")

// IsFetchError reports whether err came from the HTTP layer rather than from
// parsing or persistence.
func IsFetchError(err error) bool {
	return stderrors.Is(err, errFetch)
}

type ClientConfig struct {
	HTTPClient *http.Client
	UserAgent  string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client fetches pages from the results site. All requests go out with a
// fixed identifying User-Agent.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// FetchPage performs a GET and returns the response body as text. Network
// failures and non-2xx statuses both come back wrapped in the fetch marker so
// callers can distinguish transport problems from parse problems.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "ffcv page fetch failed", "url", pageURL, "error", err)
		return "", fmt.Errorf("%w: get %s: %v", errFetch, pageURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", errFetch, pageURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "ffcv page returned non-2xx status", "url", pageURL, "status", resp.StatusCode)
		return "", fmt.Errorf("%w: get %s: status %d", errFetch, pageURL, resp.StatusCode)
	}

	return string(raw), nil
}

// BuildTeamMatchesURL joins the configured base URL with the team matches
// path template, substituting the target team's site identifier.
func BuildTeamMatchesURL(baseURL, template, teamSiteID string) (string, error) {
	path := strings.ReplaceAll(template, "{team_id}", url.QueryEscape(strings.TrimSpace(teamSiteID)))

	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse matches path: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}
