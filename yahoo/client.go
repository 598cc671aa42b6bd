// Package yahoo provides a stockgains.MarketData backed by the Yahoo Finance
// quote and chart APIs.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/etnz/stockgains"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL of the quote API.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// DefaultChartURL is the base URL of the chart API.
	DefaultChartURL = "https://query2.finance.yahoo.com"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 2
)

// Client is a Yahoo Finance client.
//
// Prices are reported in the book currency, no conversion is made.
type Client struct {
	baseURL     string
	chartURL    string
	currency    string
	cacheDir    string
	httpClient  *http.Client
	chartClient *http.Client
	logger      arbor.ILogger
	limiter     *rate.Limiter
}

var _ stockgains.MarketData = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL for quotes.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithChartURL sets a custom base URL for daily histories.
func WithChartURL(chartURL string) ClientOption {
	return func(c *Client) {
		c.chartURL = chartURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithCurrency sets the currency of the returned prices.
func WithCurrency(currency string) ClientOption {
	return func(c *Client) {
		c.currency = currency
	}
}

// WithDailyCache caches chart responses in dir until the end of the day.
func WithDailyCache(dir string) ClientOption {
	return func(c *Client) {
		c.cacheDir = dir
	}
}

// NewClient creates a new Yahoo Finance client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		chartURL: DefaultChartURL,
		currency: stockgains.DefaultCurrency,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:  arbor.NewLogger(),
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.chartClient = c.httpClient
	if c.cacheDir != "" {
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.chartClient = &http.Client{
			Timeout:   c.httpClient.Timeout,
			Transport: &diskCache{base: base, dir: c.cacheDir, logger: c.logger},
		}
	}
	return c
}

// APIError represents an error from the Yahoo Finance API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error: %s (status %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a GET request and decodes the JSON response into a generic value.
func (c *Client) get(ctx context.Context, client *http.Client, base, path string, params url.Values) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	reqURL := base + path
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, params.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", reqURL).Msg("yahoo request")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return jobj, nil
}
