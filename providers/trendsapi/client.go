package trendsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/poiesic/marketscout/trends"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://serpapi.com/search.json"

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("trends api key not configured")

// Client fetches interest-over-time series.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ trends.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets the HTTP client. Default has a 20s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit bounds outbound requests. Default: one every 2 seconds.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(r, burst)
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 1),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "trends-client")
	return c
}

type response struct {
	Error            string `json:"error"`
	InterestOverTime struct {
		TimelineData []struct {
			Date   string `json:"date"`
			Values []struct {
				Query          string `json:"query"`
				ExtractedValue int    `json:"extracted_value"`
			} `json:"values"`
		} `json:"timeline_data"`
	} `json:"interest_over_time"`
}

// InterestOverTime implements trends.Provider. HTTP 429 responses are
// reported as trends.ErrRateLimited.
func (c *Client) InterestOverTime(ctx context.Context, req trends.Request) ([]trends.Point, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := url.Values{}
	params.Set("engine", "google_trends")
	params.Set("data_type", "TIMESERIES")
	params.Set("q", req.Term)
	if req.Timeframe != "" {
		params.Set("date", req.Timeframe)
	}
	if req.Geo != "" {
		params.Set("geo", req.Geo)
	}
	params.Set("api_key", c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// url.Error carries the request URL, which holds the key
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("trends request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("status 429: %w", trends.ErrRateLimited)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends api status %d: %s", resp.StatusCode, parsed.Error)
	}
	if parsed.Error != "" {
		// an empty series is reported as an error message, not an empty list
		if isNoResults(parsed.Error) {
			return []trends.Point{}, nil
		}
		return nil, fmt.Errorf("trends api: %s", parsed.Error)
	}

	points := make([]trends.Point, 0, len(parsed.InterestOverTime.TimelineData))
	for _, d := range parsed.InterestOverTime.TimelineData {
		if len(d.Values) == 0 {
			continue
		}
		points = append(points, trends.Point{Label: d.Date, Value: d.Values[0].ExtractedValue})
	}
	c.logger.Debug("trend series fetched", "term", req.Term, "points", len(points))
	return points, nil
}

func isNoResults(msg string) bool {
	return msg == "Google Trends hasn't returned any results for this query."
}
