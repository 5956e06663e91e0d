// Package enrich looks up movie metadata (poster artwork, release year)
// from the TMDB search API, with pacing, retries, and a per-call timeout.
// Lookups never fail loudly: every failure mode degrades to an absent
// result.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/config"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/metrics"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/resilience"
)

// Metadata is the enrichment result for a single title.
type Metadata struct {
	Title     string  `json:"title"`
	Year      string  `json:"year"`
	PosterURL *string `json:"poster_url"`
}

// Enricher is the lookup capability consumed by the backfill job and the
// request layer. A nil return means "absent": no such movie, no credential,
// or the service could not be reached within the retry budget.
type Enricher interface {
	Search(ctx context.Context, title, year string) *Metadata
}

type searchResult struct {
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// statusError marks a non-2xx HTTP response. Unlike transport errors it
// does not earn the extra failure delay; the next attempt's pacing wait is
// enough.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("metadata service returned status %d", e.code)
}

// Client queries the TMDB movie-search endpoint.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	httpClient   *http.Client
	policy       resilience.FixedPolicy
	breaker      *resilience.CircuitBreaker
	metrics      *metrics.Metrics
	logger       *slog.Logger
	warnOnce     sync.Once
}

var _ Enricher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleeper overrides the retry policy's sleeper. Tests use this to
// assert the pacing and failure-delay schedule without real waits.
func WithSleeper(s resilience.Sleeper) Option {
	return func(c *Client) {
		c.policy.Sleeper = s
	}
}

// WithMetrics attaches Prometheus collectors to the client.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a TMDB client. An empty API key is allowed; it degrades
// every lookup to an absent result without touching the network.
func NewClient(cfg config.TMDBConfig, opts ...Option) *Client {
	c := &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		httpClient:   &http.Client{},
		policy: resilience.FixedPolicy{
			MaxAttempts:  cfg.MaxAttempts,
			PacingDelay:  cfg.PacingDelay,
			FailureDelay: cfg.FailureDelay,
			CallTimeout:  cfg.RequestTimeout,
		}.Normalized(),
		breaker: resilience.NewCircuitBreaker("tmdb", 5, 30*time.Second),
		logger:  slog.Default().With("component", "tmdb-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search looks up title (optionally filtered by year) and returns the first
// match, or nil when absent. It paces every attempt, retries transport and
// HTTP failures up to the policy budget, and treats an empty result list as
// a definitive answer rather than a failure.
func (c *Client) Search(ctx context.Context, title, year string) *Metadata {
	if c.apiKey == "" {
		c.warnOnce.Do(func() {
			c.logger.Warn("TMDB_KEY not set, metadata enrichment disabled")
		})
		c.countLookup("no_credential")
		return nil
	}

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		c.policy.Pace(ctx)

		var resp *searchResponse
		err := c.breaker.Execute(func() error {
			var callErr error
			resp, callErr = c.doSearch(ctx, title, year)
			return callErr
		})
		if err != nil {
			if errors.Is(err, resilience.ErrCircuitOpen) {
				c.logger.Warn("metadata lookup short-circuited", "title", title, "error", err)
				c.countLookup("absent")
				return nil
			}
			var se *statusError
			if errors.As(err, &se) {
				c.countAttempt("http_error")
				c.logger.Warn("metadata service error",
					"title", title,
					"status", se.code,
					"attempt", attempt,
				)
				continue
			}
			c.countAttempt("transport_error")
			c.logger.Warn("metadata request failed",
				"title", title,
				"attempt", attempt,
				"error", err,
			)
			c.policy.FailureBackoff(ctx)
			continue
		}

		c.countAttempt("ok")
		if len(resp.Results) == 0 {
			// A legitimate "no such movie", not a failure.
			c.countLookup("absent")
			return nil
		}

		first := resp.Results[0]
		meta := &Metadata{
			Title: first.Title,
			Year:  truncateYear(first.ReleaseDate),
		}
		if first.PosterPath != "" {
			posterURL := c.imageBaseURL + first.PosterPath
			meta.PosterURL = &posterURL
		}
		c.countLookup("found")
		return meta
	}

	c.countLookup("absent")
	return nil
}

func (c *Client) doSearch(ctx context.Context, title, year string) (*searchResponse, error) {
	callCtx, cancel := c.policy.CallContext(ctx)
	defer cancel()

	endpoint, err := url.Parse(c.baseURL + "/search/movie")
	if err != nil {
		return nil, fmt.Errorf("parsing search url: %w", err)
	}
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", title)
	params.Set("include_adult", "false")
	if year != "" {
		params.Set("year", year)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata search: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode}
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return &payload, nil
}

// truncateYear derives a 4-digit year from a release-date string.
func truncateYear(releaseDate string) string {
	if len(releaseDate) > 4 {
		return releaseDate[:4]
	}
	return releaseDate
}

func (c *Client) countAttempt(result string) {
	if c.metrics != nil {
		c.metrics.EnrichAttemptsTotal.WithLabelValues(result).Inc()
	}
}

func (c *Client) countLookup(outcome string) {
	if c.metrics != nil {
		c.metrics.EnrichLookupsTotal.WithLabelValues(outcome).Inc()
	}
}
