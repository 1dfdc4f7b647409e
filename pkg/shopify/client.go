package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultAPIVersion is the Admin REST API version requests are pinned to.
const DefaultAPIVersion = "2023-10"

// Config holds Shopify Admin API credentials.
type Config struct {
	StoreDomain string // e.g. "my-store.myshopify.com"
	AccessToken string
	APIVersion  string
}

// Client is a minimal HTTP client for the Shopify Admin REST API.
type Client struct {
	httpClient  *http.Client
	storeDomain string
	accessToken string
	apiVersion  string
	debug       bool
}

// NewClient constructs a new Shopify client with sane defaults.
func NewClient(cfg Config) *Client {
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		storeDomain: cfg.StoreDomain,
		accessToken: cfg.AccessToken,
		apiVersion:  version,
		debug:       os.Getenv("ENV") == "development",
	}
}

// GetProducts fetches one page of products. A limit <= 0 requests the API
// maximum of 250. When status is non-empty only products in that state are
// returned.
func (c *Client) GetProducts(ctx context.Context, limit int, status string) ([]Product, error) {
	if limit <= 0 || limit > 250 {
		limit = 250
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if status != "" {
		params.Set("status", status)
	}

	var resp ProductsResponse
	if err := c.doRequest(ctx, "/products.json?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// GetProduct fetches a single product by its Shopify id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var resp ProductResponse
	if err := c.doRequest(ctx, fmt.Sprintf("/products/%d.json", id), &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// doRequest performs an authenticated GET against the Admin API and decodes
// the JSON response into result.
func (c *Client) doRequest(ctx context.Context, endpoint string, result any) error {
	u := fmt.Sprintf("https://%s/admin/api/%s%s", c.storeDomain, c.apiVersion, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Accept", "application/json")

	if c.debug {
		log.Debug().Str("url", u).Msg("[SHOPIFY] Outgoing request")
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
			Msg("[SHOPIFY] Incoming response")
	}

	// 429 carries a Retry-After header; surface it so callers can log it.
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("shopify rate limited (retry after %s)", resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("shopify returned status %d: %s", resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
