// Package botapi forwards configuration reads and writes to a trading bot's
// own REST API. The console never interprets the documents it relays; it
// authenticates the operator, picks the right bot, and passes JSON through.
package botapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

const (
	pathEngineConfig   = "/api/v1/config/engine"
	pathExchangeConfig = "/api/v1/config/exchange"
	pathStrategies     = "/api/v1/config/strategies"
	pathMarkets        = "/api/v1/config/markets"
)

// Target identifies one bot's REST API endpoint with its basic auth
// credentials, as stored in the registry
type Target struct {
	BaseURL  string
	Username string
	Password string
}

// Client relays configuration documents to bot REST APIs
type Client struct {
	httpClient *http.Client
	logger     Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client. Tests point this at
// httptest servers.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithClientLogger overrides the default logger
func WithClientLogger(logger Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a proxy client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: defLogger{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// EngineConfig fetches the bot's engine configuration
func (c *Client) EngineConfig(ctx context.Context, target Target) (json.RawMessage, error) {
	return c.get(ctx, target, pathEngineConfig)
}

// UpdateEngineConfig replaces the bot's engine configuration
func (c *Client) UpdateEngineConfig(ctx context.Context, target Target, config json.RawMessage) (json.RawMessage, error) {
	return c.put(ctx, target, pathEngineConfig, config)
}

// ExchangeConfig fetches the bot's exchange adapter configuration
func (c *Client) ExchangeConfig(ctx context.Context, target Target) (json.RawMessage, error) {
	return c.get(ctx, target, pathExchangeConfig)
}

// UpdateExchangeConfig replaces the bot's exchange adapter configuration
func (c *Client) UpdateExchangeConfig(ctx context.Context, target Target, config json.RawMessage) (json.RawMessage, error) {
	return c.put(ctx, target, pathExchangeConfig, config)
}

// Strategies fetches the bot's strategy configuration
func (c *Client) Strategies(ctx context.Context, target Target) (json.RawMessage, error) {
	return c.get(ctx, target, pathStrategies)
}

// UpdateStrategies replaces the bot's strategy configuration
func (c *Client) UpdateStrategies(ctx context.Context, target Target, config json.RawMessage) (json.RawMessage, error) {
	return c.put(ctx, target, pathStrategies, config)
}

// Markets fetches the bot's market configuration
func (c *Client) Markets(ctx context.Context, target Target) (json.RawMessage, error) {
	return c.get(ctx, target, pathMarkets)
}

// UpdateMarkets replaces the bot's market configuration
func (c *Client) UpdateMarkets(ctx context.Context, target Target, config json.RawMessage) (json.RawMessage, error) {
	return c.put(ctx, target, pathMarkets, config)
}

func (c *Client) get(ctx context.Context, target Target, path string) (json.RawMessage, error) {
	return c.do(ctx, target, http.MethodGet, path, nil)
}

func (c *Client) put(ctx context.Context, target Target, path string, body json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, target, http.MethodPut, path, body)
}

func (c *Client) do(ctx context.Context, target Target, method, path string, body json.RawMessage) (json.RawMessage, error) {
	if target.BaseURL == "" {
		return nil, errors.New("bot target has no base URL", errors.CategoryValidation)
	}

	url := strings.TrimRight(target.BaseURL, "/") + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build bot request")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if target.Username != "" {
		req.SetBasicAuth(target.Username, target.Password)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("bot request %s %s failed: %v", method, url, err)
		return nil, errors.Wrap(err, errors.CategoryOperation, "bot is unreachable").
			WithMetadata(map[string]any{
				"method": method,
				"url":    url,
			})
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read bot response")
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.logger.Warn("bot request %s %s returned %d", method, url, res.StatusCode)
		return nil, errors.New("bot rejected the request", errors.CategoryOperation).
			WithMetadata(map[string]any{
				"method": method,
				"url":    url,
				"status": res.StatusCode,
			})
	}

	if len(payload) == 0 {
		return json.RawMessage("{}"), nil
	}

	return json.RawMessage(payload), nil
}
