package amazon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultAPIHost is the RapidAPI host serving the Amazon product search API.
const DefaultAPIHost = "amazon-products.p.rapidapi.com"

// Config holds credentials for the Amazon product search API.
type Config struct {
	APIKey  string
	APIHost string
}

// Client is a minimal HTTP client for the Amazon product search API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	apiHost    string
	debug      bool
}

// NewClient constructs a new Amazon search client with sane defaults.
func NewClient(cfg Config) *Client {
	host := cfg.APIHost
	if host == "" {
		host = DefaultAPIHost
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     cfg.APIKey,
		apiHost:    host,
		debug:      os.Getenv("ENV") == "development",
	}
}

// SearchProducts runs a keyword search and returns the raw result items.
func (c *Client) SearchProducts(ctx context.Context, keywords, country string) ([]Item, error) {
	params := url.Values{}
	params.Set("q", keywords)
	if country != "" {
		params.Set("country", country)
	}

	var resp SearchResponse
	if err := c.doRequest(ctx, "/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// GetProduct fetches a single product by ASIN.
func (c *Client) GetProduct(ctx context.Context, asin, country string) (*Item, error) {
	params := url.Values{}
	params.Set("asin", asin)
	if country != "" {
		params.Set("country", country)
	}

	var item Item
	if err := c.doRequest(ctx, "/product?"+params.Encode(), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// doRequest performs an authenticated GET against the search API and decodes
// the JSON response into result.
func (c *Client) doRequest(ctx context.Context, endpoint string, result any) error {
	u := "https://" + c.apiHost + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	if c.debug {
		log.Debug().Str("url", u).Msg("[AMAZON] Outgoing request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Msg("[AMAZON] Incoming response")
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("amazon search API rate limited")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("amazon search API returned status %d: %s", resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
