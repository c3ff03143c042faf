package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/marketscout/core"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "https://newsapi.org/v2/everything"
	DefaultPageSize = 20
	DefaultKeep     = 5
)

// Inline entries returned by Fetch. All carry the warning marker so that
// the evidence assembler keeps them out of the generation context.
var (
	EntryMissingKey = core.WarningMarker + " Error: Missing News API Key"
	EntryNoArticles = core.WarningMarker + " No relevant news found."
)

// ErrMissingAPIKey is returned by Search when no API key is configured.
var ErrMissingAPIKey = errors.New("news api key not configured")

// Article is one search result with markup removed.
type Article struct {
	Title       string
	Description string
	Source      string
	URL         string
}

// Client searches NewsAPI.
type Client struct {
	apiKey     string
	baseURL    string
	pageSize   int
	keep       int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets the HTTP client. Default has a 10s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPageSize sets how many articles are requested. Default: 20.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithKeep sets how many on-topic headlines Fetch returns. Default: 5.
func WithKeep(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.keep = n
		}
	}
}

// WithRateLimit bounds outbound requests. Default: 1 per second, burst 5.
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

// NewClient creates a client. An empty apiKey is allowed; Fetch then
// reports the missing key inline.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		pageSize:   DefaultPageSize,
		keep:       DefaultKeep,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(1, 5),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "news-client")
	return c
}

type response struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Search returns up to the page size of English articles for query, most
// relevant first. A nil slice with no error means the provider returned no
// article list at all.
func (c *Client) Search(ctx context.Context, query string) ([]Article, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "relevancy")
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(c.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	// header rather than query parameter so the key never appears in URLs
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Status == "error" {
		return nil, fmt.Errorf("news api status %d: %s %s", resp.StatusCode, parsed.Code, parsed.Message)
	}
	if parsed.Articles == nil {
		return nil, nil
	}

	articles := make([]Article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		articles = append(articles, Article{
			Title:       StripMarkup(a.Title),
			Description: StripMarkup(a.Description),
			Source:      a.Source.Name,
			URL:         a.URL,
		})
	}
	return articles, nil
}

// Fetch returns headlines for query that mention at least one of topics
// (case-insensitively, in the title or description). When fewer than the
// keep count qualify, a warning entry naming the first topic is appended.
// Failures are returned as a single warning entry.
func (c *Client) Fetch(ctx context.Context, query string, topics ...string) []string {
	articles, err := c.Search(ctx, query)
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return []string{EntryMissingKey}
	case err != nil:
		c.logger.Warn("news fetch failed", "stage", "news", "query", query, "err", err)
		return []string{fmt.Sprintf("%s Error fetching news: %v", core.WarningMarker, err)}
	case articles == nil:
		return []string{EntryNoArticles}
	}

	terms := topicTerms(query, topics)
	headlines := make([]string, 0, c.keep)
	for _, a := range articles {
		if a.Title == "" || !mentionsAny(a, terms) {
			continue
		}
		headlines = append(headlines, a.Title)
		if len(headlines) == c.keep {
			break
		}
	}

	c.logger.Debug("news fetched", "query", query, "articles", len(articles), "on_topic", len(headlines))
	if len(headlines) < c.keep {
		headlines = append(headlines, fmt.Sprintf("%s Not enough %s-specific news.", core.WarningMarker, terms[0]))
	}
	return headlines
}

func topicTerms(query string, topics []string) []string {
	seen := map[string]bool{}
	var terms []string
	for _, t := range append(topics, query) {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		terms = append(terms, t)
	}
	if len(terms) == 0 {
		terms = []string{"topic"}
	}
	return terms
}

func mentionsAny(a Article, terms []string) bool {
	title := strings.ToLower(a.Title)
	desc := strings.ToLower(a.Description)
	for _, t := range terms {
		t = strings.ToLower(t)
		if strings.Contains(title, t) || strings.Contains(desc, t) {
			return true
		}
	}
	return false
}
