// Package upstream talks to the public case-count API.
package upstream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"casetracker/internal/models"
)

const DefaultBaseURL = "https://api.covidtracking.com/v2"

// Client is the shared HTTP configuration for every upstream call. Build one
// per process and pass it to whoever needs it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	location   *time.Location
	logger     *slog.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLocation sets the zone day strings are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) { c.location = loc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
		location:   time.Local,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URLFor returns the daily-series endpoint for scope.
func (c *Client) URLFor(scope models.Scope) string {
	switch s := scope.(type) {
	case models.National:
		return c.baseURL + "/us/daily.json"
	case models.RegionScope:
		return c.baseURL + "/states/" + strings.ToLower(s.Region.Code) + "/daily.json"
	default:
		panic(fmt.Sprintf("upstream: unhandled scope %T", scope))
	}
}

func (c *Client) regionListURL() string {
	return c.baseURL + "/states.json"
}

// FetchDailySeries returns the day records for scope in upstream order.
func (c *Client) FetchDailySeries(ctx context.Context, scope models.Scope) ([]models.DailyRecord, error) {
	url := c.URLFor(scope)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	records, err := decodeDailySeries(body, c.location)
	if err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}

	c.logger.DebugContext(ctx, "daily series fetched", "url", url, "records", len(records))
	return records, nil
}

// FetchRegionList returns the region catalog. Any malformed entry fails the call.
func (c *Client) FetchRegionList(ctx context.Context) ([]models.Region, error) {
	url := c.regionListURL()
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	regions, err := decodeRegionList(body)
	if err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}

	c.logger.DebugContext(ctx, "region list fetched", "url", url, "regions", len(regions))
	return regions, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.DebugContext(ctx, "failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &NetworkError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	return body, nil
}
