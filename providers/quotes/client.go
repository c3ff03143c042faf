package quotes

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
)

const DefaultBaseURL = "https://query2.finance.yahoo.com/v10/finance/quoteSummary"

// Field keys, in the order Snapshot emits them.
var FieldKeys = []string{
	"symbol", "name", "sector", "industry", "price", "market_cap",
	"52_week_high", "52_week_low", "dividend_yield",
}

var (
	// ErrSymbolNotFound is returned when the provider knows no such symbol.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrEmptySymbol is returned for a blank symbol.
	ErrEmptySymbol = errors.New("symbol cannot be empty")
)

// Summary is the subset of a quote summary the client uses. Missing
// numeric values are nil.
type Summary struct {
	Symbol        string
	LongName      string
	Sector        string
	Industry      string
	Country       string
	Price         *float64
	MarketCap     *float64
	FiftyTwoHigh  *float64
	FiftyTwoLow   *float64
	DividendYield *float64
}

// Client fetches quote summaries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient sets the HTTP client. Default has a 10s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  "Mozilla/5.0 (compatible; marketscout/1.0)",
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "quotes-client")
	return c
}

type value struct {
	Raw *float64 `json:"raw"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				Symbol             string `json:"symbol"`
				LongName           string `json:"longName"`
				ShortName          string `json:"shortName"`
				RegularMarketPrice value  `json:"regularMarketPrice"`
				MarketCap          value  `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				FiftyTwoWeekHigh value `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  value `json:"fiftyTwoWeekLow"`
				DividendYield    value `json:"dividendYield"`
			} `json:"summaryDetail"`
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
				Country  string `json:"country"`
			} `json:"assetProfile"`
			FinancialData struct {
				CurrentPrice value `json:"currentPrice"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// Summary fetches the quote summary for symbol. It returns an error
// wrapping ErrSymbolNotFound when the provider does not know the symbol.
func (c *Client) Summary(ctx context.Context, symbol string) (*Summary, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, ErrEmptySymbol
	}

	u := fmt.Sprintf("%s/%s?modules=%s", c.baseURL, url.PathEscape(symbol),
		url.QueryEscape("price,summaryDetail,assetProfile,financialData"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed summaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", symbol, ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	qs := parsed.QuoteSummary
	if resp.StatusCode == http.StatusNotFound || (qs.Error != nil && qs.Error.Code == "Not Found") {
		return nil, fmt.Errorf("%s: %w", symbol, ErrSymbolNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote api status %d", resp.StatusCode)
	}
	if qs.Error != nil {
		return nil, fmt.Errorf("quote api: %s: %s", qs.Error.Code, qs.Error.Description)
	}
	if len(qs.Result) == 0 || qs.Result[0].Price.Symbol == "" {
		return nil, fmt.Errorf("%s: %w", symbol, ErrSymbolNotFound)
	}

	r := qs.Result[0]
	s := &Summary{
		Symbol:        r.Price.Symbol,
		LongName:      r.Price.LongName,
		Sector:        r.AssetProfile.Sector,
		Industry:      r.AssetProfile.Industry,
		Country:       r.AssetProfile.Country,
		Price:         r.FinancialData.CurrentPrice.Raw,
		MarketCap:     r.Price.MarketCap.Raw,
		FiftyTwoHigh:  r.SummaryDetail.FiftyTwoWeekHigh.Raw,
		FiftyTwoLow:   r.SummaryDetail.FiftyTwoWeekLow.Raw,
		DividendYield: r.SummaryDetail.DividendYield.Raw,
	}
	if s.LongName == "" {
		s.LongName = r.Price.ShortName
	}
	if s.Price == nil {
		s.Price = r.Price.RegularMarketPrice.Raw
	}
	return s, nil
}

// Snapshot returns the quote fields for symbol in FieldKeys order, with
// absent values as core.NotAvailable. Any failure yields a quote holding a
// single "error" field.
func (c *Client) Snapshot(ctx context.Context, symbol string) core.Quote {
	s, err := c.Summary(ctx, symbol)
	if err != nil {
		c.logger.Warn("quote fetch failed", "stage", "quote", "symbol", symbol, "err", err)
		return core.QuoteError(fmt.Sprintf("Failed to fetch data for %s: %v", symbol, err))
	}

	sym := s.Symbol
	if sym == "" {
		sym = symbol
	}
	values := []string{
		sym,
		orNA(s.LongName),
		orNA(s.Sector),
		orNA(s.Industry),
		formatNumber(s.Price),
		formatNumber(s.MarketCap),
		formatNumber(s.FiftyTwoHigh),
		formatNumber(s.FiftyTwoLow),
		formatNumber(s.DividendYield),
	}

	q := core.Quote{Fields: make([]core.QuoteField, len(FieldKeys))}
	for i, k := range FieldKeys {
		q.Fields[i] = core.QuoteField{Key: k, Value: values[i]}
	}
	return q
}

// Lookup resolves symbol for entity resolution. The country comes from the
// company profile, falling back to the exchange suffix of the symbol.
func (c *Client) Lookup(ctx context.Context, symbol string) core.LookupResult {
	s, err := c.Summary(ctx, symbol)
	switch {
	case errors.Is(err, ErrSymbolNotFound), errors.Is(err, ErrEmptySymbol):
		return core.NotFound()
	case err != nil:
		return core.TransientError(err)
	}

	country := CountryCode(s.Country)
	if country == "" {
		country = core.CountryForSymbol(s.Symbol)
	}
	return core.Found(core.TickerRecord{Symbol: s.Symbol, Country: country}, s.LongName)
}

// CompanyName returns the long name for symbol, or "" when unknown.
func (c *Client) CompanyName(ctx context.Context, symbol string) string {
	s, err := c.Summary(ctx, symbol)
	if err != nil {
		c.logger.Debug("company name lookup failed", "symbol", symbol, "err", err)
		return ""
	}
	return s.LongName
}

var countryCodes = map[string]string{
	"united states":  "US",
	"india":          "IN",
	"japan":          "JP",
	"south korea":    "KR",
	"korea":          "KR",
	"united kingdom": "UK",
	"hong kong":      "HK",
	"canada":         "CA",
	"australia":      "AU",
	"germany":        "DE",
	"france":         "FR",
	"china":          "CN",
	"taiwan":         "TW",
	"netherlands":    "NL",
	"switzerland":    "CH",
	"ireland":        "IE",
}

// CountryCode maps a country name as reported in company profiles to the
// short code used for ticker records. Unknown names map to "".
func CountryCode(name string) string {
	return countryCodes[strings.ToLower(strings.TrimSpace(name))]
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return core.NotAvailable
	}
	return s
}

func formatNumber(v *float64) string {
	if v == nil {
		return core.NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
